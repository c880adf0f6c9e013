package document

import (
	"fmt"
	"time"

	"github.com/tgienger/taskgraph/internal/models"
)

// timeNow is swapped out by tests that need deterministic timestamps.
var timeNow = time.Now

func errUnknownTask(id models.TaskID) error {
	return fmt.Errorf("document: unknown task id %d", id)
}
