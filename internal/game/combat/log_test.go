package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/shire/internal/model"
	"github.com/udisondev/shire/internal/testutil"
)

func TestLog_DropsOldest(t *testing.T) {
	l := NewLog(3)
	for i := 1; i <= 5; i++ {
		l.Add(Event{Turn: i})
	}

	require.Equal(t, 3, l.Len())
	events := l.Events()
	assert.Equal(t, []int{3, 4, 5}, []int{events[0].Turn, events[1].Turn, events[2].Turn})

	events[0].Turn = 99
	assert.Equal(t, 3, l.Events()[0].Turn, "Events returns a copy")
}

func TestLog_MinimumSize(t *testing.T) {
	l := NewLog(0)
	l.Add(Event{Turn: 1})
	l.Add(Event{Turn: 2})

	require.Equal(t, 1, l.Len())
	assert.Equal(t, 2, l.Events()[0].Turn)
}

func TestEncounter_LogIsBounded(t *testing.T) {
	rules := testRules()
	rules.Combat.LogSize = 4

	enc, err := NewEncounter(rules, testHero(t), testEnemy(t, func(s *model.EnemySpec) { s.Health = 1000 }), testutil.FixtureItems(), testutil.NewSeqRand())
	require.NoError(t, err)
	_, err = enc.Start()
	require.NoError(t, err)

	for range 5 {
		_, err := enc.Submit(Attack())
		require.NoError(t, err)
	}

	log := enc.Log()
	require.Len(t, log, 4)
	assert.Equal(t, 5, log[len(log)-1].Turn)
	assert.Equal(t, 5, enc.Stats().Turns)
}

func TestStateAndActionNames(t *testing.T) {
	assert.Equal(t, "player_turn", StatePlayerTurn.String())
	assert.Equal(t, "victory", StateVictory.String())
	assert.True(t, StateFled.Terminal())
	assert.False(t, StateResolution.Terminal())
	assert.Equal(t, "use_item", ActionUseItem.String())
	assert.Equal(t, "enemy", ActorEnemy.String())
}
