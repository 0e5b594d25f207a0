package wizard

// Labels are the texts the wizard shows.
type Labels struct {
	Next             string
	Send             string
	ChooseOption     string
	ChooseItems      string
	ChooseLocations  string
	Review           string
	ItemsHeading     string
	LocationsHeading string
}

// EnglishLabels returns the default labels
func EnglishLabels() Labels {
	return Labels{
		Next:             "Next",
		Send:             "Send",
		ChooseOption:     "What information would you like to get?",
		ChooseItems:      "Please choose one or more items",
		ChooseLocations:  "Please choose one or more locations",
		Review:           "Ready to send your request",
		ItemsHeading:     "Items",
		LocationsHeading: "Locations",
	}
}

// FrenchLabels returns the French notices and button labels
func FrenchLabels() Labels {
	return Labels{
		Next:             "Suivant",
		Send:             "Envoyer",
		ChooseOption:     "Quelles informations souhaitez-vous obtenir ?",
		ChooseItems:      "Veuillez choisir un ou plusieurs objets",
		ChooseLocations:  "Veuillez choisir un ou plusieurs établissement",
		Review:           "Votre demande est prête à être envoyée",
		ItemsHeading:     "Objets",
		LocationsHeading: "Établissements",
	}
}

// LabelsFor returns the label set for a language code, English by default
func LabelsFor(lang string) Labels {
	switch lang {
	case "fr", "fr-FR", "french":
		return FrenchLabels()
	default:
		return EnglishLabels()
	}
}

func (l Labels) notice(p Phase) string {
	switch p {
	case PhaseOption:
		return l.ChooseOption
	case PhaseItems:
		return l.ChooseItems
	case PhaseLocations:
		return l.ChooseLocations
	default:
		return l.Review
	}
}

func (l Labels) button(final bool) string {
	if final {
		return l.Send
	}
	return l.Next
}
