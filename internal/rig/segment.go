package rig

import (
	"fmt"
	"strings"
)

// Segment identifies a posable part of the character.
type Segment uint8

const (
	Head Segment = iota
	LeftArm
	RightArm
	LeftLeg
	RightLeg
	Body
	EyeLeft
	EyeRight
	Mouth

	NumSegments
)

var segmentNames = [NumSegments]string{
	Head:     "head",
	LeftArm:  "leftArm",
	RightArm: "rightArm",
	LeftLeg:  "leftLeg",
	RightLeg: "rightLeg",
	Body:     "body",
	EyeLeft:  "eyeLeft",
	EyeRight: "eyeRight",
	Mouth:    "mouth",
}

func (s Segment) String() string {
	if s < NumSegments {
		return segmentNames[s]
	}
	return fmt.Sprintf("segment(%d)", uint8(s))
}

// Segments returns every segment in declaration order.
func Segments() []Segment {
	out := make([]Segment, NumSegments)
	for i := range out {
		out[i] = Segment(i)
	}
	return out
}

// ParseSegment resolves a segment by name. Matching ignores case and
// accepts kebab or snake spellings ("left-arm", "left_arm").
func ParseSegment(name string) (Segment, error) {
	n := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	for s, v := range segmentNames {
		if strings.ToLower(v) == n {
			return Segment(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSegment, name)
}
