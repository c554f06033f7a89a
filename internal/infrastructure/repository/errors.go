package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/pharmacy-api/pkg/apperror"
)

// wrapStoreErr turns connectivity failures into StoreUnavailableError and
// returns every other error unchanged.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConnectivityErr(err) {
		return apperror.NewStoreUnavailableError(op, err)
	}
	return err
}

func isConnectivityErr(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
