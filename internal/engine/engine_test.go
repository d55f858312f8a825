package engine

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cheru-app/cheru/internal/config"
	"github.com/cheru-app/cheru/internal/index"
	"github.com/cheru-app/cheru/internal/security"
)

// newTestEngine builds an engine over fixed buckets with a gate confined to
// home. Tests close the engine themselves via t.Cleanup.
func newTestEngine(t *testing.T, home string, apps, folders, images []index.Entry) *Engine {
	t.Helper()
	store := index.NewStore(home, apps, folders, images)
	log := logrus.New()
	log.SetOutput(io.Discard)
	eng, err := New(store, security.NewWithRoots(home, nil), config.Default(), log)
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func appEntry(name, exec string) index.Entry {
	return index.Entry{Name: name, Exec: exec, Icon: "/icons/" + name + ".png", Description: name + " app", Kind: index.KindApp}
}

func folderEntry(name, exec string) index.Entry {
	return index.Entry{Name: name, Exec: exec, Description: exec, Kind: index.KindFolder}
}

func imageEntry(name, exec string) index.Entry {
	return index.Entry{Name: name, Exec: exec, Icon: exec, Description: exec, Kind: index.KindImage}
}

func manyApps(n int) []index.Entry {
	apps := make([]index.Entry, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("app%03d", i)
		apps = append(apps, appEntry(name, "/usr/bin/"+name))
	}
	return apps
}
