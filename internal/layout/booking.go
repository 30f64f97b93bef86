package layout

import (
	"fmt"

	"github.com/mcncl/jsonview/internal/config"
	"github.com/mcncl/jsonview/internal/models"
)

// Booking lays out a restaurant booking document:
//
//	{"restaurant": {...}, "tables": [{"tableId", "seats", "area",
//	  "isAccessible", "minSpend", "reservations": [{"reservationId", "status", ...}]}]}
//
// Fields it does not name are still shown wherever a whole sub-value is
// rendered. Missing fields never fail the layout.
type Booking struct{}

// tableInfoKeys are the table fields shown in the "Table info" block, in
// display order.
var tableInfoKeys = []string{"seats", "area", "isAccessible", "minSpend"}

func (Booking) Name() string  { return config.LayoutBooking }
func (Booking) Title() string { return "Booking overview" }

func (Booking) Compose(doc models.Value) []Panel {
	tables := doc.Field("tables")

	tablePanels := make([]Panel, 0, tables.Len())
	if tables.Kind == models.Sequence {
		for _, table := range tables.Items() {
			tablePanels = append(tablePanels, tablePanel(table))
		}
	}

	return []Panel{
		{
			Heading: "Restaurant",
			Tree:    tree(doc.Field("restaurant")),
		},
		{
			Heading:  "Tables & reservations",
			Note:     fmt.Sprintf("Number of tables: %d", sequenceLen(tables)),
			Children: tablePanels,
		},
	}
}

func tablePanel(table models.Value) Panel {
	info := make([]models.Field, len(tableInfoKeys))
	for i, key := range tableInfoKeys {
		info[i] = models.Field{Key: key, Value: table.Field(key)}
	}

	reservations := table.Field("reservations")
	resPanels := make([]Panel, 0, reservations.Len())
	if reservations.Kind == models.Sequence {
		for _, r := range reservations.Items() {
			resPanels = append(resPanels, Panel{
				Title:    inline(r.Field("reservationId")),
				Subtitle: inline(r.Field("status")),
				Tree:     tree(r),
			})
		}
	}

	return Panel{
		Title:    inline(table.Field("tableId")),
		Subtitle: fmt.Sprintf("%s seats • %s", inline(table.Field("seats")), inline(table.Field("area"))),
		Children: []Panel{
			{
				Heading: "Table info",
				Tree:    tree(models.MappingValue(info...)),
			},
			{
				Heading:  fmt.Sprintf("Reservations (%d)", sequenceLen(reservations)),
				Children: resPanels,
			},
		},
	}
}

// inline is the text of a value placed inside a hand-authored header, where
// absent values show as nothing rather than as a literal token.
func inline(v models.Value) string {
	if v.IsNil() {
		return ""
	}
	if !v.IsScalar() {
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
	return v.Text()
}

func sequenceLen(v models.Value) int {
	if v.Kind != models.Sequence {
		return 0
	}
	return v.Len()
}
