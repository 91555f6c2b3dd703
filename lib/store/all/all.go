// Package all is a meta-package that imports all store implementations so
// that they register themselves with the store package.
package all

import (
	_ "github.com/TecharoHQ/zkauth/lib/store/bbolt"
	_ "github.com/TecharoHQ/zkauth/lib/store/memory"
	_ "github.com/TecharoHQ/zkauth/lib/store/valkey"
)
