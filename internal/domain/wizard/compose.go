package wizard

import (
	"strings"

	"github.com/GriffinCanCode/chatform/internal/shared/types"
)

// Compose renders an emitted request as message content: the option
// description, then one line per non-empty selection.
func Compose(req types.Request, labels Labels) string {
	var b strings.Builder

	if req.Option != nil {
		text := req.Option.Description
		if text == "" {
			text = req.Option.Name
		}
		b.WriteString(text)
	}

	if len(req.Items) > 0 {
		names := make([]string, len(req.Items))
		for i, item := range req.Items {
			names[i] = item.Name
		}
		writeLine(&b, labels.ItemsHeading, names)
	}

	if len(req.Locations) > 0 {
		names := make([]string, len(req.Locations))
		for i, loc := range req.Locations {
			names[i] = loc.Name
		}
		writeLine(&b, labels.LocationsHeading, names)
	}

	return b.String()
}

func writeLine(b *strings.Builder, heading string, names []string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(heading)
	b.WriteString(": ")
	b.WriteString(strings.Join(names, ", "))
}
