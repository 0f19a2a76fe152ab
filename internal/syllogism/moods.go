package syllogism

// #region imports
import "github.com/proofloop/proofloop/internal/logic"

// #endregion imports

// #region mood-table

// moodNames maps quantifier-code/figure combinations onto the
// traditional mood names. All 24 classically recognized forms are
// listed, subaltern moods included.
var moodNames = map[string]string{
	// Figure 1: M-P, S-M
	"AAA-1": "Barbara",
	"EAE-1": "Celarent",
	"AII-1": "Darii",
	"EIO-1": "Ferio",
	"AAI-1": "Barbari",
	"EAO-1": "Celaront",

	// Figure 2: P-M, S-M
	"EAE-2": "Cesare",
	"AEE-2": "Camestres",
	"EIO-2": "Festino",
	"AOO-2": "Baroco",
	"EAO-2": "Cesaro",
	"AEO-2": "Camestros",

	// Figure 3: M-P, M-S
	"AAI-3": "Darapti",
	"IAI-3": "Disamis",
	"AII-3": "Datisi",
	"EAO-3": "Felapton",
	"OAO-3": "Bocardo",
	"EIO-3": "Ferison",

	// Figure 4: P-M, M-S
	"AAI-4": "Bamalip",
	"AEE-4": "Camenes",
	"IAI-4": "Dimaris",
	"AEO-4": "Camenos",
	"EAO-4": "Fesapo",
	"EIO-4": "Fresison",
}

// #endregion mood-table

// #region mood-name

// MoodName returns the traditional name for the argument's form, or
// the raw mood code when the form has no classical name.
func MoodName(a logic.Argument) string {
	code := a.Mood()
	if name, ok := moodNames[code]; ok {
		return name
	}
	return code
}

// ValidMoodCount is the number of classically valid mood/figure
// combinations, existential import included.
const ValidMoodCount = 24

// #endregion mood-name
