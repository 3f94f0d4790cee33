package app

import (
	"github.com/vk/fragments/internal/registry"
	"github.com/vk/fragments/modules/env_vars"
	"github.com/vk/fragments/modules/markdown"
	"github.com/vk/fragments/modules/print"
	"github.com/vk/fragments/modules/text"
)

// coreModules is the definitive list of all generator modules that are
// compiled into the binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&print.Module{},
	&text.Module{},
	&markdown.Module{},
}
