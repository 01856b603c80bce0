package schedule

// Candidate key lists are part of the contract: they are tried in order and
// the first present, non-empty value wins, so reordering them changes
// output. The two families mirror what each provider actually emits.
var (
	naverTeamNameKeys = []string{"teamCode", "nameAcronym", "shortName", "nameEng", "name"}
	naverTeamLogoKeys = []string{"imageUrl", "colorImageUrl", "whiteImageUrl", "blackImageUrl"}

	opggTeamNameKeys = []string{"acronym", "name"}
	opggTeamLogoKeys = []string{"imageUrl", "imageUrlLightMode", "imageUrlDarkMode"}
)

// TeamName returns the first usable display name from a raw team object.
// The team value may be absent, nil, or not an object at all; each of those
// is simply "no data".
func TeamName(team any, keys []string) (string, bool) {
	return firstTeamString(team, keys)
}

// TeamLogo returns the first usable logo URL from a raw team object, same
// tolerance rules as TeamName.
func TeamLogo(team any, keys []string) (string, bool) {
	return firstTeamString(team, keys)
}

func firstTeamString(team any, keys []string) (string, bool) {
	obj, ok := team.(map[string]any)
	if !ok {
		return "", false
	}
	for _, key := range keys {
		if s := stringValue(obj[key]); s != "" {
			return s, true
		}
	}
	return "", false
}

// firstString tries candidate keys on a raw match object and returns the
// first non-empty string value.
func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringValue(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

// firstValue tries candidate keys and returns the first value that is
// present and non-nil.
func firstValue(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
