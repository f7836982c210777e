// Package intent turns the language model's JSON reply for a voice or text
// note into a typed intent. Parsing never fails: anything that does not look
// like a well-formed intent becomes Unknown.
package intent

import (
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
)

const (
	KindLogFood    = "log_food"
	KindLogWorkout = "log_workout"
	KindUnknown    = "unknown"
)

type FoodItem struct {
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	AlcoholUnits float64 `json:"alcohol_units,omitempty"`
}

type FoodData struct {
	Items []FoodItem `json:"items"`
}

// Totals sums the macros across all items.
func (f *FoodData) Totals() FoodItem {
	var t FoodItem
	for _, it := range f.Items {
		t.Calories += it.Calories
		t.Protein += it.Protein
		t.Carbs += it.Carbs
		t.Fat += it.Fat
		t.AlcoholUnits += it.AlcoholUnits
	}
	return t
}

type WorkoutData struct {
	Activity  string `json:"activity"`
	Duration  int    `json:"duration"`
	Intensity string `json:"intensity"`
}

// Intent is the parsed reply. Data is *FoodData, *WorkoutData or nil.
type Intent struct {
	Kind     string `json:"intent"`
	Data     any    `json:"data,omitempty"`
	Original string `json:"original"`
	Error    string `json:"error,omitempty"`
}

type envelope struct {
	Intent string          `json:"intent"`
	Data   json.RawMessage `json:"data"`
}

// Unknown is the fallback for unusable replies.
func Unknown(original, reason string) Intent {
	return Intent{Kind: KindUnknown, Original: original, Error: reason}
}

// Parse decodes raw. original is the user's transcript, echoed back so the
// caller always has something to show.
func Parse(raw []byte, original string) Intent {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Unknown(original, "")
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Unknown(original, "Failed to parse intent")
	}

	switch env.Intent {
	case KindLogFood:
		var fd FoodData
		if err := json.Unmarshal(env.Data, &fd); err != nil || len(fd.Items) == 0 {
			return Unknown(original, "Failed to parse intent")
		}
		for _, it := range fd.Items {
			if strings.TrimSpace(it.Name) == "" || it.Calories < 0 || it.Protein < 0 || it.Carbs < 0 || it.Fat < 0 {
				return Unknown(original, "Failed to parse intent")
			}
		}
		return Intent{Kind: KindLogFood, Data: &fd, Original: original}

	case KindLogWorkout:
		var wd WorkoutData
		if err := json.Unmarshal(env.Data, &wd); err != nil || strings.TrimSpace(wd.Activity) == "" || wd.Duration < 0 {
			return Unknown(original, "Failed to parse intent")
		}
		if wd.Intensity == "" {
			wd.Intensity = models.IntensityModerate
		}
		if !models.ValidIntensity(wd.Intensity) {
			return Unknown(original, "Failed to parse intent")
		}
		return Intent{Kind: KindLogWorkout, Data: &wd, Original: original}
	}

	return Unknown(original, "")
}
