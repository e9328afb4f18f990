package transcript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseSRT reads SubRip cues. Blocks without a parseable timing line are
// skipped; cue indices are not required.
func parseSRT(data []byte) ([]rawSegment, error) {
	content := strings.TrimPrefix(string(data), "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	var out []rawSegment
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		timing := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timing = i
				break
			}
		}
		if timing < 0 || timing > 1 {
			continue
		}
		parts := strings.SplitN(lines[timing], "-->", 2)
		start, err := parseSRTTimestamp(parts[0])
		if err != nil {
			return nil, err
		}
		// Strip cue settings such as "X1:40 Y1:20" after the end time.
		endField := strings.Fields(parts[1])
		if len(endField) == 0 {
			return nil, fmt.Errorf("missing end time in %q", lines[timing])
		}
		end, err := parseSRTTimestamp(endField[0])
		if err != nil {
			return nil, err
		}
		out = append(out, rawSegment{
			start: start,
			end:   end,
			text:  strings.Join(lines[timing+1:], " "),
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no subrip cues found")
	}
	return out, nil
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty timestamp")
	}
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}
