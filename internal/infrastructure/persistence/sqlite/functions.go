package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	gosqlite "github.com/glebarez/go-sqlite"
)

// foldLowerFunc lower-cases text with Go's Unicode tables. The built-in
// LOWER only folds ASCII.
const foldLowerFunc = "fold_lower"

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFunctions installs the custom SQL functions on the driver. They
// are visible to every connection opened afterwards.
func registerFunctions() error {
	registerOnce.Do(func() {
		registerErr = gosqlite.RegisterDeterministicScalarFunction(foldLowerFunc, 1, foldLower)
	})
	return registerErr
}

func foldLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", foldLowerFunc, v)
	}
}
