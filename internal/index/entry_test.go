package index

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(KindWebSearch)
	require.NoError(t, err)
	assert.Equal(t, `"websearch"`, string(out))
}

func TestKind_GroupRankOrdering(t *testing.T) {
	order := []Kind{KindCalculator, KindApp, KindSystem, KindFolder, KindImage, KindFile, KindWebSearch}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].GroupRank(), order[i].GroupRank(),
			"%s should rank before %s", order[i-1], order[i])
	}
}
