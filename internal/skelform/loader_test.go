package skelform

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skelform-renderer/internal/anim"
	"skelform-renderer/internal/armature"
)

// writeSKF builds a .skf archive on disk from an armature.json body and
// a set of atlas PNGs.
func writeSKF(t *testing.T, armatureJSON string, atlases map[string]image.Image) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("armature.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(armatureJSON)); err != nil {
		t.Fatal(err)
	}
	for name, img := range atlases {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(w, img); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "test.skf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testAtlas() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
		img.Pix[i+3] = 255
	}
	return img
}

const basicArmature = `{
  "atlases": [{"filename": "atlas0.png"}],
  "bones": [
    {"id": 0, "name": "root", "parent_id": -1, "pos": [0,0], "rot": 0, "scale": [1,1], "zindex": 0, "tex": "torso"},
    {"id": 1, "name": "child", "parent_id": 0, "pos": [0,0], "rot": 0, "scale": [1,1], "zindex": 1, "tex": "head"}
  ],
  "animations": [
    {"name": "slide", "fps": 20, "keyframes": [
      {"frame": 0, "bone_id": 1, "element": "PositionX", "value": 0, "transition": "Linear"},
      {"frame": 10, "bone_id": 1, "element": "PositionX", "value": 10, "transition": "Linear"}
    ]}
  ],
  "styles": [
    {"name": "default", "textures": [
      {"name": "torso", "atlas": 0, "offset": [0,0], "size": [32,32]},
      {"name": "head", "atlas": 0, "offset": [32,0], "size": [16,16]}
    ]}
  ]
}`

func TestLoadBasicArmature(t *testing.T) {
	path := writeSKF(t, basicArmature, map[string]image.Image{"atlas0.png": testAtlas()})

	arm, atlases, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(arm.Bones) != 2 || len(arm.Animations) != 1 || len(arm.Styles) != 1 {
		t.Fatalf("unexpected shape: %d bones, %d animations, %d styles",
			len(arm.Bones), len(arm.Animations), len(arm.Styles))
	}
	if len(atlases) != 1 || atlases[0].Bounds().Dx() != 64 {
		t.Fatalf("atlas not decoded")
	}

	child := &arm.Bones[1]
	if child.Parent != 0 {
		t.Errorf("child parent index = %d, want 0", child.Parent)
	}
	if child.Local != child.Rest {
		t.Errorf("working pose should start at the rest pose")
	}

	slide := arm.Animation("slide")
	if slide == nil {
		t.Fatal("animation not found by name")
	}
	if slide.Length != 10 {
		t.Errorf("length = %g, want 10 (max keyframe)", slide.Length)
	}
	tr := slide.Track(1, armature.PositionX)
	if tr == nil || len(tr.Keys) != 2 {
		t.Fatalf("PositionX track not bucketed: %+v", tr)
	}
}

// The full pipeline: 0.5s of elapsed time at 20 fps lands on frame 10,
// which places the child at world position (10, 0).
func TestLoadAnimateConstructScenario(t *testing.T) {
	path := writeSKF(t, basicArmature, map[string]image.Image{"atlas0.png": testAtlas()})

	arm, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	slide := arm.Animation("slide")

	frame := anim.TimeFrame(500*time.Millisecond, slide, false, false)
	if math.Abs(frame-10) > 1e-9 {
		t.Fatalf("frame = %g, want 10", frame)
	}

	err = anim.Animate(arm.Bones, []*armature.Animation{slide}, []float64{frame}, []float64{1})
	if err != nil {
		t.Fatal(err)
	}

	resolved := anim.Construct(arm, anim.DefaultOptions())
	got := resolved[1].Pos
	if math.Abs(got[0]-10) > 1e-9 || math.Abs(got[1]) > 1e-9 {
		t.Errorf("child world pos = %v, want (10,0)", got)
	}
}

func TestLoadRejectsForwardParent(t *testing.T) {
	bad := strings.Replace(basicArmature, `"parent_id": -1`, `"parent_id": 1`, 1)
	path := writeSKF(t, bad, map[string]image.Image{"atlas0.png": testAtlas()})
	if _, _, err := Load(path); err == nil {
		t.Fatal("forward parent reference accepted")
	}
}

func TestLoadRejectsUnknownBoneInKeyframe(t *testing.T) {
	bad := strings.Replace(basicArmature, `"bone_id": 1, "element": "PositionX", "value": 0`,
		`"bone_id": 99, "element": "PositionX", "value": 0`, 1)
	path := writeSKF(t, bad, map[string]image.Image{"atlas0.png": testAtlas()})
	if _, _, err := Load(path); err == nil {
		t.Fatal("keyframe for unknown bone accepted")
	}
}

func TestLoadRejectsNonMonotonicKeyframes(t *testing.T) {
	bad := strings.Replace(basicArmature, `"frame": 10,`, `"frame": -5,`, 1)
	path := writeSKF(t, bad, map[string]image.Image{"atlas0.png": testAtlas()})
	if _, _, err := Load(path); err == nil {
		t.Fatal("non-monotonic keyframes accepted")
	}
}

func TestLoadRejectsUnknownElement(t *testing.T) {
	bad := strings.Replace(basicArmature, `"element": "PositionX", "value": 10`,
		`"element": "Wobble", "value": 10`, 1)
	path := writeSKF(t, bad, map[string]image.Image{"atlas0.png": testAtlas()})
	if _, _, err := Load(path); err == nil {
		t.Fatal("unknown element accepted")
	}
}

func TestLoadRejectsMissingAtlas(t *testing.T) {
	path := writeSKF(t, basicArmature, nil)
	if _, _, err := Load(path); err == nil {
		t.Fatal("missing atlas image accepted")
	}
}

func TestLoadRejectsMissingArmatureJSON(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Close()
	path := filepath.Join(t.TempDir(), "empty.skf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Fatal("archive without armature.json accepted")
	}
}

func TestLoadTint(t *testing.T) {
	tinted := strings.Replace(basicArmature,
		`{"name": "head", "atlas": 0, "offset": [32,0], "size": [16,16]}`,
		`{"name": "head", "atlas": 0, "offset": [32,0], "size": [16,16], "tint": [255,0,0,255], "zindex": 5}`, 1)
	path := writeSKF(t, tinted, map[string]image.Image{"atlas0.png": testAtlas()})

	arm, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tex := arm.Styles[0].Find("head")
	if tex == nil {
		t.Fatal("head binding missing")
	}
	if tex.Tint == nil || *tex.Tint != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("tint = %+v, want red", tex.Tint)
	}
	if tex.ZIndex == nil || *tex.ZIndex != 5 {
		t.Errorf("zindex override = %+v, want 5", tex.ZIndex)
	}
}

func TestLoadDefaultScaleIsUnit(t *testing.T) {
	noScale := strings.Replace(basicArmature, `"scale": [1,1], "zindex": 0`, `"zindex": 0`, 1)
	path := writeSKF(t, noScale, map[string]image.Image{"atlas0.png": testAtlas()})

	arm, _, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if arm.Bones[0].Rest.Scale[0] != 1 || arm.Bones[0].Rest.Scale[1] != 1 {
		t.Errorf("missing scale should default to unit, got %v", arm.Bones[0].Rest.Scale)
	}
}
