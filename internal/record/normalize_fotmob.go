package record

import "time"

// NormalizeFotmob flattens a match-data playerData document. The shape is
// deeply nested: identity at the top level, display properties inside a
// playerProps list keyed by translationKey, positions under
// origin.positionDesc, and career aggregates spread over careerStatistics
// and careerHistory.
func NormalizeFotmob(raw map[string]any, rctx Context) (Record, error) {
	id := getString(raw, "id")
	if id == "" {
		return Record{}, ErrUnidentifiedPlayer
	}

	rec := Record{
		ID:          id,
		Name:        getString(raw, "name"),
		Club:        rctx.Club,
		ClubID:      rctx.ClubID,
		MarketValue: MarketValueMissing,
		Foot:        FootUnknown,
	}
	rec.NameDecoded = FoldName(rec.Name)

	props := playerProps(raw)

	if prop, ok := props["height_sentencecase"]; ok {
		if cm, parsed := ParseHeight(propFallback(prop)); parsed {
			rec.HeightCm = cm
			rec.HeightFt, rec.HeightIn = CmToFtIn(cm)
		}
	}

	if prop, ok := props["preferred_foot"]; ok {
		rec.Foot = ParseFoot(propFallback(prop))
	}

	if prop, ok := props["country_sentencecase"]; ok {
		rec.Nationality1 = getString(prop, "countryCode")
	}

	if prop, ok := props["transfer_value"]; ok {
		if value, parsed := ParseCurrency(propFallback(prop)); parsed {
			rec.MarketValue = value
		}
	}

	if prop, ok := props["years"]; ok {
		if ms, parsed := getNumber(getMap(prop, "dateOfBirth"), "utcTime"); parsed {
			rec.DateOfBirth = time.UnixMilli(int64(ms)).UTC()
			applyAge(&rec, rctx)
		}
	}

	rec.Position = fotmobPrimaryPosition(raw)
	rec.MinutesPlayed = careerMinutes(raw)
	rec.Appearances = seniorAppearances(raw)

	return rec, nil
}

// playerProps indexes the playerProps list by translationKey, falling back
// to the display title for older document versions.
func playerProps(raw map[string]any) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, item := range getSlice(raw, "playerProps") {
		prop, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := getString(prop, "translationKey")
		if key == "" {
			key = getString(prop, "title")
		}
		if key != "" {
			out[key] = prop
		}
	}
	return out
}

func propFallback(prop map[string]any) string {
	return getString(getMap(prop, "value"), "fallback")
}

// fotmobPrimaryPosition picks the position flagged as main, else the first
// listed one.
func fotmobPrimaryPosition(raw map[string]any) string {
	positions := getSlice(digChain(raw, "origin", "positionDesc"), "positions")
	if len(positions) == 0 {
		positions = getSlice(getMap(raw, "positionDesc"), "positions")
	}

	var first string
	for _, item := range positions {
		position, ok := item.(map[string]any)
		if !ok {
			continue
		}
		label := getString(getMap(position, "strPosShort"), "label")
		if label == "" {
			label = getString(position, "strPos")
		}
		if label == "" {
			continue
		}
		if first == "" {
			first = label
		}
		if getBool(position, "isMainPosition") {
			return PositionCode(label)
		}
	}
	return PositionCode(first)
}

// careerMinutes sums minutes_played across the careerStatistics tree:
// clubs → seasons → stats[0].statsArr, where each statsArr entry is a
// [label, {key, value}] pair.
func careerMinutes(raw map[string]any) int {
	total := 0
	for _, clubItem := range getSlice(raw, "careerStatistics") {
		club, ok := clubItem.(map[string]any)
		if !ok {
			continue
		}
		for _, seasonItem := range getSlice(club, "seasons") {
			season, ok := seasonItem.(map[string]any)
			if !ok {
				continue
			}
			stats := getSlice(season, "stats")
			if len(stats) == 0 {
				continue
			}
			block, ok := stats[0].(map[string]any)
			if !ok {
				continue
			}
			for _, statItem := range getSlice(block, "statsArr") {
				pair, ok := statItem.([]any)
				if ok && len(pair) > 0 {
					statItem = pair[len(pair)-1]
				}
				stat, ok := statItem.(map[string]any)
				if !ok {
					continue
				}
				if getString(stat, "key") == "minutes_played" {
					total += getInt(stat, "value")
				}
			}
		}
	}
	return total
}

// seniorAppearances totals the senior career rows, skipping entries the
// provider itself marks uncertain.
func seniorAppearances(raw map[string]any) int {
	senior := getSlice(digChain(raw, "careerHistory", "careerData", "careerItems"), "senior")
	total := 0
	for _, item := range senior {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if getBool(entry, "hasUncertainData") {
			continue
		}
		if apps, ok := firstInt(getString(entry, "appearances")); ok {
			total += apps
		}
	}
	return total
}
