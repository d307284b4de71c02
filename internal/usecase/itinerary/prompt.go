package itinerary

import (
	"fmt"
	"strings"

	"github.com/kaiyu-cloud/tripdex/internal/domain/selection"
	"github.com/kaiyu-cloud/tripdex/internal/domain/trip"
)

// jsonStructure is the schedule skeleton the generator must fill in.
const jsonStructure = `{
    "itinerary": [
        {
        "date": "YYYY-MM-DD",
        "day": "Day x",
        "schedule": [
            { "time": "HH:mm", "activity": "", "need_location": boolean, "specific_location_name": null, "lat": null, "lng": null }
        ]
        }
    ],
    "comments": "comments or additional notes about the itinerary"
}`

// seasonNotes carries the per-season weather and clothing guidance included
// in every prompt so seasonal-fit comments stay grounded.
var seasonNotes = []struct {
	Season      string
	Description string
	Clothing    string
}{
	{
		Season: "Spring: March - May",
		Description: "Spring begins with plum blossoms blooming around the country, the precursor to the famous cherry blossoms. Cherry blossoms peak in Tokyo around the end of March and the beginning of April.",
		Clothing:    "Light jackets, light sweaters, with a light coat on top. Layers work best as days are warm but nights can still be chilly.",
	},
	{
		Season: "Summer: June - August/September",
		Description: "Summer begins in June with a three to four week rainy season, one of the best times for festivals. July through September is staggeringly hot and humid; northern resorts and mountains offer relief.",
		Clothing:    "Light clothes, rain boots, ponchos/umbrellas.",
	},
	{
		Season: "Autumn: September/October - November",
		Description: "Autumn arrives earlier in the north; in Tokyo, Kyoto, and Osaka, September stays hot and humid before the brilliant yellow, orange, and red foliage comes in.",
		Clothing:    "Light jackets, light sweaters and similar tops.",
	},
	{
		Season: "Winter: December - February",
		Description: "Winter can be very cold. Central and northern regions have some of the world's best powder snow, perfect for winter sports.",
		Clothing:    "Coats, sweaters, thick socks.",
	},
}

// BuildPrompt assembles the generation prompt around the selected context
// chunks. With no chunks it falls back to the no-context variant, which
// leans entirely on the trip parameters.
func BuildPrompt(query string, params trip.Params, chunks []selection.Chunk) string {
	var b strings.Builder

	b.WriteString("Generate a detailed travel itinerary in JSON format.\n\n")
	b.WriteString("The itinerary must include:\n")
	b.WriteString("- Multiple days with specific dates (YYYY-MM-DD).\n")
	b.WriteString("- Day labels (\"Day 1\", \"Day 2\").\n")
	b.WriteString("- A schedule for each day with time slots (HH:mm, 24-hour format) and activities.\n")
	b.WriteString("- Do not guess coordinates. Always keep lat/lng null.\n")
	b.WriteString("- need_location must be false for activities that are not location-specific (shopping, dining, hotel rest time, free time); set specific_location_name to null in that case.\n")
	b.WriteString("- For specific attractions, museums, temples, or landmarks, need_location is always true and specific_location_name carries the exact place name from the activity.\n")
	b.WriteString("- Comments about the itinerary, including whether the months suit the planned activities. Season data:\n")
	for _, n := range seasonNotes {
		fmt.Fprintf(&b, "  %s: %s Clothing: %s\n", n.Season, n.Description, n.Clothing)
	}

	if len(chunks) > 0 {
		b.WriteString("\nUse the following reference context:\n")
		for _, c := range chunks {
			fmt.Fprintf(&b, "[%s] %s\n", c.SourceID, c.Text)
		}
	} else {
		b.WriteString("\nNo reference context is available; plan from general knowledge and the request alone.\n")
	}

	fmt.Fprintf(&b, "\nCreate the itinerary for this request: %s\n", query)
	if len(params.Cities()) > 0 {
		fmt.Fprintf(&b, "Cities: %s\n", strings.Join(params.Cities(), ", "))
	}
	if params.HasDates() {
		fmt.Fprintf(&b, "The trip starts on %s and ends on %s; verify the itinerary aligns with that period and keeps travel distances manageable.\n",
			params.StartDate().Format(trip.DateLayout), params.EndDate().Format(trip.DateLayout))
	} else if params.Days() > 0 {
		fmt.Fprintf(&b, "The trip lasts %d days.\n", params.Days())
	}

	b.WriteString("\nEnsure the response contains only valid JSON with no explanations or extra text, following this structure:\n")
	b.WriteString(jsonStructure)
	b.WriteString("\nMake the itinerary in English language.\n")

	return b.String()
}
