package phases

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tnl/debugs"
	"github.com/reusee/tnl/logs"
)

type Module struct {
	dscope.Module
	Logs   logs.Module
	Debugs debugs.Module
}
