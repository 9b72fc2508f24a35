package extract_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/chatlaw/pkg/extract"
	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/gt"
)

func TestRegexExtract(t *testing.T) {
	ctx := context.Background()
	x := extract.NewRegex()

	got, err := x.Extract(ctx, "On 12/03/2024 my phone was stolen near Shivaji Market in Pune. It cost Rs. 25,000.")
	gt.NoError(t, err)
	gt.Equal(t, got[model.EntityDates], []string{"12/03/2024"})
	gt.Equal(t, got[model.EntityMonetaryValues], []string{"Rs. 25,000"})
	gt.Equal(t, got[model.EntityLocations], []string{"Shivaji Market", "Pune", "market"})
	gt.Equal(t, got[model.EntityItems], []string{"phone"})
	_, ok := got[model.EntityParties]
	gt.False(t, ok)
}

func TestRegexDates(t *testing.T) {
	x := extract.NewRegex()

	got, err := x.Extract(context.Background(), "It happened on March 5, 2023 and again on 7 April")
	gt.NoError(t, err)
	gt.Equal(t, got[model.EntityDates], []string{"March 5, 2023", "7 April"})
	_, ok := got[model.EntityLocations]
	gt.False(t, ok)

	got, err = x.Extract(context.Background(), "yesterday evening, not Yesterday morning")
	gt.NoError(t, err)
	gt.Equal(t, got[model.EntityDates], []string{"yesterday evening", "Yesterday morning"})
}

func TestRegexMoneyAndParties(t *testing.T) {
	got, err := extract.NewRegex().Extract(context.Background(),
		"My landlord and my neighbour owe me $500 and ₹1,200")
	gt.NoError(t, err)
	gt.Equal(t, got[model.EntityMonetaryValues], []string{"$500", "₹1,200"})
	gt.Equal(t, got[model.EntityParties], []string{"landlord", "neighbour"})
}

func TestRegexItemsUseWordBoundary(t *testing.T) {
	got, err := extract.NewRegex().Extract(context.Background(),
		"the card and my landlord; laptop, car, bike, house and gold were taken")
	gt.NoError(t, err)
	// "card" is not "car", "landlord" is not "land"; capped at four
	gt.Equal(t, got[model.EntityItems], []string{"laptop", "car", "bike", "house"})
}

func TestRegexDeduplicates(t *testing.T) {
	got, err := extract.NewRegex().Extract(context.Background(), "Pune, then Pune again, PUNE station and the station")
	gt.NoError(t, err)
	gt.Equal(t, got[model.EntityLocations], []string{"Pune", "station"})
}

func TestRegexEmpty(t *testing.T) {
	got, err := extract.NewRegex().Extract(context.Background(), "")
	gt.NoError(t, err)
	gt.Equal(t, len(got), 0)
}
