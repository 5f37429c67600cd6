package metrics

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"
)

// Identity describes one monitoring run for diagnostics: the host being
// sampled and a session identifier that is stable for the current boot.
type Identity struct {
	Hostname  string
	SessionID string
}

func sessionIDFor(hostname string, bootTime uint64) string {
	seed := fmt.Sprintf("%s:%d", strings.TrimSpace(hostname), bootTime)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// CurrentIdentity resolves the identity of this monitoring run. The session
// ID survives monitor restarts but changes after a machine reboot, so a log
// consumer can tell a monitor restart apart from a reboot. When boot time is
// unavailable the ID degrades to a random one.
func CurrentIdentity() Identity {
	hostname, _ := os.Hostname()
	id := Identity{Hostname: hostname}

	bootTime, err := host.BootTime()
	if err != nil || bootTime == 0 {
		id.SessionID = uuid.New().String()
		return id
	}
	id.SessionID = sessionIDFor(hostname, bootTime)
	return id
}
