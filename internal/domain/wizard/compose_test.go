package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
	"github.com/GriffinCanCode/chatform/internal/testutil"
)

func TestCompose(t *testing.T) {
	noDescription := types.Option{ID: 7, Name: "callback"}

	tests := []struct {
		name   string
		req    types.Request
		labels Labels
		want   string
	}{
		{
			name:   "option only",
			req:    types.Request{Option: &testutil.OptionStatus},
			labels: EnglishLabels(),
			want:   "Is the service running normally?",
		},
		{
			name: "items and locations",
			req: types.Request{
				Option:    &testutil.OptionDelivery,
				Items:     []types.Item{testutil.ItemBlueTowel, testutil.ItemBlueSheet},
				Locations: []types.Location{testutil.LocationGrand},
			},
			labels: EnglishLabels(),
			want:   "When will these items reach this place?\nItems: Blue bath towel, Blue flat sheet\nLocations: Grand Hotel",
		},
		{
			name: "french headings",
			req: types.Request{
				Option:    &testutil.OptionOpening,
				Locations: []types.Location{testutil.LocationGrand, testutil.LocationLaundry},
			},
			labels: FrenchLabels(),
			want:   "When does this place open?\nÉtablissements: Grand Hotel, North Laundry",
		},
		{
			name:   "falls back to option name",
			req:    types.Request{Option: &noDescription},
			labels: EnglishLabels(),
			want:   "callback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(tt.req, tt.labels))
		})
	}
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, FrenchLabels(), LabelsFor("fr"))
	assert.Equal(t, EnglishLabels(), LabelsFor("en"))
	assert.Equal(t, EnglishLabels(), LabelsFor(""))
}
