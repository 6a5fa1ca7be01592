package app

import (
	"github.com/specialistvlad/gridbuild/internal/registry"
	"github.com/specialistvlad/gridbuild/modules/command"
	"github.com/specialistvlad/gridbuild/modules/env_vars"
	"github.com/specialistvlad/gridbuild/modules/http_request"
	"github.com/specialistvlad/gridbuild/modules/print"
)

// coreModules is the definitive list of all entry point modules that are
// compiled into the gridbuild binary.
var coreModules = []registry.Module{
	&command.Module{},
	&env_vars.Module{},
	&http_request.Module{},
	&print.Module{},
}
