package panel

import (
	_ "embed"
	"html/template"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/meetupaws/property_search/listings/internal/model"
)

const (
	Placeholder = "e.g. pet friendly, within 10 minutes of a station, freelancers OK, rent under 80,000"

	labelIdle    = "Search"
	labelLoading = "Searching..."
)

//go:embed templates/panel.html.tmpl
var panelTemplate string

var tmpl = template.Must(template.New("panel").Parse(panelTemplate))

type view struct {
	Query       string
	Placeholder string
	ButtonLabel string
	Busy        bool
	Error       string
	Cards       []card
	ShowEmpty   bool
}

type card struct {
	Key                string
	Name               string
	Description        string
	Price              string
	Location           string
	Distance           string
	Features           string
	PetFriendly        bool
	FreelancerFriendly bool
}

// Render writes the panel for s as an HTML fragment. Cards are keyed by listing id.
func Render(w io.Writer, s State) error {
	v := view{
		Query:       s.Query,
		Placeholder: Placeholder,
		ButtonLabel: labelIdle,
		Busy:        s.IsLoading,
		Error:       s.ErrorMessage,
		Cards:       make([]card, 0, len(s.Results)),
		ShowEmpty:   s.ShowEmpty(),
	}
	if s.IsLoading {
		v.ButtonLabel = labelLoading
	}

	for _, l := range s.Results {
		v.Cards = append(v.Cards, newCard(l))
	}

	return tmpl.Execute(w, v)
}

func newCard(l model.Listing) card {
	return card{
		Key:                l.ID,
		Name:               l.Name,
		Description:        l.Description,
		Price:              FormatPrice(l.Price),
		Location:           l.Location,
		Distance:           FormatDistance(l.DistanceToStation),
		Features:           strings.Join(l.Features, ", "),
		PetFriendly:        l.PetFriendly,
		FreelancerFriendly: l.FreelancerFriendly,
	}
}

// FormatPrice renders a rent in yen with grouped thousands, e.g. ¥80,000.
func FormatPrice(price float64) string {
	p := message.NewPrinter(language.Japanese)
	return "¥" + p.Sprintf("%v", number.Decimal(price, number.MaxFractionDigits(3)))
}

// FormatDistance renders minutes to the station.
func FormatDistance(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', -1, 64) + " min"
}
