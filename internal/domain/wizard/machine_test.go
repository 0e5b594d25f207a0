package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/testutil"
)

func TestNewMachine(t *testing.T) {
	m := NewMachine()

	assert.Equal(t, StepOption, m.Step())
	assert.Equal(t, NoMaxStep, m.MaxStep())
	assert.Nil(t, m.Option())

	d := m.Recompute()
	assert.Equal(t, PhaseOption, d.Phase)
	assert.Equal(t, types.KindOption, d.Fetch)
	assert.False(t, d.Final)
	assert.False(t, d.SubmitEnabled)
}

func TestChooseOptionSteps(t *testing.T) {
	tests := []struct {
		name        string
		option      types.Option
		wantMax     int
		wantStep    int
		wantPhase   Phase
		wantFetch   types.Kind
		wantFinal   bool
		wantEnabled bool
	}{
		{
			name:      "items only",
			option:    testutil.OptionTowelCount,
			wantMax:   2,
			wantStep:  StepItems,
			wantPhase: PhaseItems,
			wantFetch: types.KindItem,
			wantFinal: true,
		},
		{
			name:      "locations only skips the item step",
			option:    testutil.OptionOpening,
			wantMax:   2,
			wantStep:  StepLocations,
			wantPhase: PhaseLocations,
			wantFetch: types.KindLocation,
			wantFinal: true,
		},
		{
			name:      "items and locations",
			option:    testutil.OptionDelivery,
			wantMax:   3,
			wantStep:  StepItems,
			wantPhase: PhaseItems,
			wantFetch: types.KindItem,
			wantFinal: false,
		},
		{
			name:        "no list steps",
			option:      testutil.OptionStatus,
			wantMax:     1,
			wantStep:    StepReview,
			wantPhase:   PhaseReview,
			wantFetch:   "",
			wantFinal:   true,
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			require.NoError(t, m.ChooseOption(tt.option))

			d := m.Recompute()

			assert.Equal(t, tt.wantMax, m.MaxStep())
			assert.Equal(t, tt.wantStep, m.Step())
			assert.Equal(t, tt.wantPhase, d.Phase)
			assert.Equal(t, tt.wantFetch, d.Fetch)
			assert.Equal(t, tt.wantFinal, d.Final)
			assert.Equal(t, tt.wantEnabled, d.SubmitEnabled)
		})
	}
}

func TestChooseOptionOnlyOnce(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionDelivery))

	assert.ErrorIs(t, m.ChooseOption(testutil.OptionStatus), ErrWrongStep)
	assert.Equal(t, testutil.OptionDelivery.ID, m.Option().ID)
}

func TestNoListStepsSubmitsImmediately(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionStatus))
	assert.Equal(t, StepOption, m.MaxStep(), "final step is the step the option was chosen at")

	req, emitted := m.Advance(true)

	require.True(t, emitted)
	assert.Equal(t, testutil.OptionStatus, *req.Option)
	assert.Empty(t, req.Items)
	assert.Empty(t, req.Locations)
	assertReset(t, m)
}

func TestItemsOnlyScenario(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionTowelCount))
	require.Equal(t, types.KindItem, m.Recompute().Fetch)

	_, err := m.ToggleItem(testutil.ItemBlueTowel)
	require.NoError(t, err)
	_, err = m.ToggleItem(testutil.ItemWhiteTowel)
	require.NoError(t, err)

	req, emitted := m.Advance(true)

	require.True(t, emitted)
	assert.Equal(t, testutil.OptionTowelCount.ID, req.Option.ID)
	assert.Equal(t, []types.Item{testutil.ItemBlueTowel, testutil.ItemWhiteTowel}, req.Items)
	assert.Empty(t, req.Locations)
	assertReset(t, m)
}

func TestTwoListSteps(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionDelivery))

	m.SetBuiltinFilter("towel")
	m.SetSearch("blue")
	m.ToggleFilterPanel()
	require.Equal(t, types.Query{Builtin: "towel", Search: "blue"}, m.Recompute().Query)

	assert.False(t, m.SubmitEnabled())
	_, err := m.ToggleItem(testutil.ItemBlueTowel)
	require.NoError(t, err)
	assert.True(t, m.SubmitEnabled())

	req, emitted := m.Advance(true)
	require.False(t, emitted)
	assert.Nil(t, req)

	d := m.Recompute()
	assert.Equal(t, StepLocations, m.Step())
	assert.Equal(t, PhaseLocations, d.Phase)
	assert.True(t, d.Final)
	assert.True(t, d.Query.IsZero(), "filters cleared on advance")
	assert.False(t, m.Filter().PanelOpen(), "panel collapsed on advance")
	assert.False(t, d.SubmitEnabled, "locations step starts disabled")

	_, err = m.ToggleItem(testutil.ItemWhiteTowel)
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = m.ToggleLocation(testutil.LocationLaundry)
	require.NoError(t, err)

	req, emitted = m.Advance(true)
	require.True(t, emitted)
	assert.Equal(t, []types.Item{testutil.ItemBlueTowel}, req.Items)
	assert.Equal(t, []types.Location{testutil.LocationLaundry}, req.Locations)
	assertReset(t, m)
}

func TestAdvanceNoop(t *testing.T) {
	t.Run("host not ready", func(t *testing.T) {
		m := NewMachine()
		require.NoError(t, m.ChooseOption(testutil.OptionTowelCount))
		_, _ = m.ToggleItem(testutil.ItemBlueSheet)

		req, emitted := m.Advance(false)

		assert.False(t, emitted)
		assert.Nil(t, req)
		assert.Equal(t, StepItems, m.Step())
		assert.Equal(t, 1, m.Items().Len())
	})

	t.Run("empty selection", func(t *testing.T) {
		m := NewMachine()
		require.NoError(t, m.ChooseOption(testutil.OptionDelivery))

		_, emitted := m.Advance(true)

		assert.False(t, emitted)
		assert.Equal(t, StepItems, m.Step())
	})

	t.Run("no option yet", func(t *testing.T) {
		m := NewMachine()

		_, emitted := m.Advance(true)

		assert.False(t, emitted)
		assert.Equal(t, StepOption, m.Step())
	})
}

func TestRecomputeIsIdempotent(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionOpening))
	m.SetSearch("harbor")

	first := m.Recompute()
	second := m.Recompute()

	assert.Equal(t, first, second)
	assert.Equal(t, StepLocations, m.Step())
}

func TestStepNeverDecreasesWithinRun(t *testing.T) {
	m := NewMachine()
	last := m.Step()
	check := func() {
		t.Helper()
		assert.GreaterOrEqual(t, m.Step(), last)
		last = m.Step()
	}

	require.NoError(t, m.ChooseOption(testutil.OptionDelivery))
	check()
	_, _ = m.ToggleItem(testutil.ItemPillowCase)
	check()
	m.SetBuiltinFilter("pillow_case")
	check()
	m.Advance(true)
	check()
	m.SetSearch("grand")
	check()
	_, _ = m.ToggleLocation(testutil.LocationGrand)
	check()
}

func TestSnapshotIsIndependent(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.ChooseOption(testutil.OptionTowelCount))
	_, _ = m.ToggleItem(testutil.ItemBlueTowel)

	snap := m.Snapshot()
	snap.Option.Name = "changed"
	snap.Items[0].Name = "changed"

	assert.Equal(t, testutil.OptionTowelCount.Name, m.Option().Name)
	got, _ := m.Items().Get(testutil.ItemBlueTowel.ID)
	assert.Equal(t, testutil.ItemBlueTowel.Name, got.Name)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "option", PhaseOption.String())
	assert.Equal(t, "items", PhaseItems.String())
	assert.Equal(t, "locations", PhaseLocations.String())
	assert.Equal(t, "review", PhaseReview.String())
	assert.Equal(t, "unknown", Phase(9).String())
}

func assertReset(t *testing.T, m *Machine) {
	t.Helper()
	assert.Nil(t, m.Option())
	assert.Equal(t, StepOption, m.Step())
	assert.Equal(t, NoMaxStep, m.MaxStep())
	assert.Zero(t, m.Items().Len())
	assert.Zero(t, m.Locations().Len())
	assert.Equal(t, Filter{}, m.Filter())
}
