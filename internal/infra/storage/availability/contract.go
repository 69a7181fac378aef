package availability

import "github.com/m04kA/SMC-RitualBookingService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
