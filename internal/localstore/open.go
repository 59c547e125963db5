package localstore

import "fmt"

// Open returns the store selected by driver ("sqlite" or "memory").
func Open(driver, path string) (Store, error) {
	switch driver {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		if path == "" {
			return nil, fmt.Errorf("localstore: sqlite driver needs a path")
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("localstore: unsupported driver %q", driver)
	}
}
