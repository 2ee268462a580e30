// Package all imports every built-in extension so their init() registration
// runs. Import for side effects from main:
//
//	import _ "github.com/jpl-au/docshell/extension/all"
package all

import (
	_ "github.com/jpl-au/docshell/extension/core"
	_ "github.com/jpl-au/docshell/extension/file"
)
