package skelform

// Wire types for armature.json inside a SkelForm export. Kept separate
// from the runtime model so the file layout can evolve without touching
// the evaluation pipeline.

type fileArmature struct {
	TextureSize [2]float64      `json:"texture_size"`
	Atlases     []fileAtlas     `json:"atlases"`
	Bones       []fileBone      `json:"bones"`
	Animations  []fileAnimation `json:"animations"`
	Styles      []fileStyle     `json:"styles"`
}

type fileAtlas struct {
	Filename string `json:"filename"`
}

type fileBone struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	ParentID int        `json:"parent_id"` // bone id, -1 for roots
	Pos      [2]float64 `json:"pos"`
	Rot      float64    `json:"rot"`
	Scale    [2]float64 `json:"scale"`
	ZIndex   float64    `json:"zindex"`
	Tex      string     `json:"tex"`
}

type fileAnimation struct {
	Name      string         `json:"name"`
	FPS       float64        `json:"fps"`
	Keyframes []fileKeyframe `json:"keyframes"`
}

// fileKeyframe is one entry of the flat keyframe list; the loader buckets
// these into per-bone per-channel tracks.
type fileKeyframe struct {
	Frame      float64 `json:"frame"`
	BoneID     int     `json:"bone_id"`
	Element    string  `json:"element"`
	Value      float64 `json:"value"`
	Transition string  `json:"transition"`
}

type fileStyle struct {
	Name     string        `json:"name"`
	Textures []fileTexture `json:"textures"`
}

type fileTexture struct {
	Name   string     `json:"name"`
	Atlas  int        `json:"atlas"`
	Offset [2]float64 `json:"offset"`
	Size   [2]float64 `json:"size"`
	Tint   *[4]uint8  `json:"tint,omitempty"`
	ZIndex *float64   `json:"zindex,omitempty"`
}
