package smoke

import "net/http"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

var (
	viewStatuses   = []int{http.StatusOK}
	lookupStatuses = []int{http.StatusOK, http.StatusNotFound}
)
