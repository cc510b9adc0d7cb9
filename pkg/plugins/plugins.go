// Package plugins links the bundled plugins into the process-wide factory
// registry. Import it for its side effects, or import a single plugin
// package to register only that one.
package plugins

import (
	"github.com/arthur-debert/switchboard/pkg/logging"
	"github.com/arthur-debert/switchboard/pkg/plugin"

	// Import all plugin packages to register their factories
	_ "github.com/arthur-debert/switchboard/pkg/plugins/dbop"
	_ "github.com/arthur-debert/switchboard/pkg/plugins/logger"
	_ "github.com/arthur-debert/switchboard/pkg/plugins/metrics"
	_ "github.com/arthur-debert/switchboard/pkg/plugins/validate"
)

// Bundled lists the factory names registered by this package
var Bundled = []string{"dbop", "logging", "metrics", "validate"}

// Initialize reports the registered factories at debug level. It exists
// so callers can depend on the package explicitly.
func Initialize() {
	logger := logging.GetLogger("plugins.init")
	logger.Debug().Strs("factories", plugin.Factories()).Msg("Plugin factories registered")
}
