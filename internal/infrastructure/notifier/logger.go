package notifier

import "dealradar/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault
