package component

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"section-matcher/internal/layout"

	"gopkg.in/yaml.v3"
)

// record is the on-disk shape of a template. Optional fields stay unset when
// missing or unreadable so defaults can be applied in one place.
type record struct {
	ID            optText `json:"id" yaml:"id"`
	Name          optText `json:"name" yaml:"name"`
	Link          optText `json:"link" yaml:"link"`
	LayoutType    optText `json:"layout_type" yaml:"layout_type"`
	DominantSide  optText `json:"dominant_side" yaml:"dominant_side"`
	MinBoxes      optInt  `json:"min_boxes" yaml:"min_boxes"`
	MaxBoxes      optInt  `json:"max_boxes" yaml:"max_boxes"`
	MinTextBlocks optInt  `json:"min_text_blocks" yaml:"min_text_blocks"`
	MaxTextBlocks optInt  `json:"max_text_blocks" yaml:"max_text_blocks"`
}

func (r record) template() Template {
	return Template{
		ID:            r.ID.v,
		Name:          r.Name.v,
		Link:          r.Link.or("#"),
		LayoutType:    r.LayoutType.v,
		DominantSide:  layout.ParseSide(r.DominantSide.or(string(layout.SideUnknown))),
		MinBoxes:      r.MinBoxes.or(DefaultMinBoxes),
		MaxBoxes:      r.MaxBoxes.or(DefaultMaxBoxes),
		MinTextBlocks: r.MinTextBlocks.or(DefaultMinTextBlocks),
		MaxTextBlocks: r.MaxTextBlocks.or(DefaultMaxTextBlocks),
	}
}

// optInt accepts JSON/YAML numbers or numeric strings within int32 range.
// Anything else leaves it unset.
type optInt struct {
	v   int
	set bool
}

func (o optInt) or(def int) int {
	if o.set {
		return o.v
	}
	return def
}

func (o *optInt) parse(s string) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		o.v, o.set = int(n), true
		return
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return
	}
	o.v, o.set = int(f), true
}

func (o *optInt) UnmarshalJSON(data []byte) error {
	*o = optInt{}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.parse(s)
		return nil
	}
	o.parse(string(data))
	return nil
}

func (o *optInt) UnmarshalYAML(node *yaml.Node) error {
	*o = optInt{}
	if node.Kind == yaml.ScalarNode {
		o.parse(node.Value)
	}
	return nil
}

// optText accepts a string or a YAML scalar; other kinds leave it unset.
type optText struct {
	v   string
	set bool
}

func (o optText) or(def string) string {
	if o.set && strings.TrimSpace(o.v) != "" {
		return o.v
	}
	return def
}

func (o *optText) UnmarshalJSON(data []byte) error {
	*o = optText{}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.v, o.set = s, true
	}
	return nil
}

func (o *optText) UnmarshalYAML(node *yaml.Node) error {
	*o = optText{}
	if node.Kind == yaml.ScalarNode && node.Tag != "!!null" {
		o.v, o.set = node.Value, true
	}
	return nil
}
