package app

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"

	"github.com/ryz3006/alignzo/bulk"
	"github.com/ryz3006/alignzo/internal/models"
)

// delSessions deletes the specified sessions. It requests confirmation
// before proceeding with the operation.
func delSessions(env *runtimeEnv, ids []string) error {
	sessions := make([]*models.TimeSession, 0, len(ids))
	found := make([]string, 0, len(ids))

	for _, id := range ids {
		sess, err := env.engine.Get(id, env.cfg.User.ID)
		if err != nil {
			pterm.Error.Printfln("Session %s: %s", id, err)
			continue
		}

		sessions = append(sessions, sess)
		found = append(found, id)
	}

	if len(sessions) == 0 {
		return nil
	}

	printSessionsTable(os.Stdout, sessions)

	warning := pterm.Warning.Sprint(
		"The above sessions will be deleted permanently. Press ENTER to proceed",
	)

	fmt.Fprint(os.Stdout, warning)

	reader := bufio.NewReader(os.Stdin)

	_, _ = reader.ReadString('\n')

	result := env.bulk.Apply(
		bulk.OperationDelete,
		found,
		env.cfg.User.ID,
		time.Now(),
	)

	printBulkResult(os.Stdout, "deleted", result)

	return nil
}
