package sequence

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/mathutil"
)

func testArmature() (*armature.Armature, []*image.NRGBA) {
	unit := mathutil.Vec2{1, 1}
	rest := armature.Transform{Scale: unit}
	arm := &armature.Armature{
		Bones: []armature.Bone{
			{ID: 0, Name: "root", Parent: -1, Rest: rest, Local: rest, Tex: "dot"},
		},
		Animations: []armature.Animation{
			{
				Name: "spin", FPS: 10, Length: 10,
				Tracks: map[int][]armature.Track{
					0: {{Channel: armature.Rotation, Keys: []armature.Keyframe{
						{Frame: 0, Value: 0}, {Frame: 10, Value: 3},
					}}},
				},
			},
		},
		Styles: []armature.Style{
			{Name: "default", Textures: []armature.StyleTexture{
				{Name: "dot", Atlas: 0, Offset: mathutil.Vec2{0, 0}, Size: mathutil.Vec2{8, 8}},
			}},
		},
		AtlasCount: 1,
	}

	atlas := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(atlas.Pix); i += 4 {
		atlas.Pix[i] = 255
		atlas.Pix[i+3] = 255
	}
	return arm, []*image.NRGBA{atlas}
}

func TestRunRendersFrames(t *testing.T) {
	arm, atlases := testArmature()
	out := t.TempDir()

	results, err := Run(Config{
		Armature:  arm,
		Atlases:   atlases,
		Layers:    []LayerSpec{{Animation: "spin", Weight: 1, Loop: true}},
		OutputDir: out,
		FPS:       10,
		Frames:    3,
		Width:     32,
		Height:    32,
		Workers:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, r := range results {
		if !r.Success {
			t.Fatalf("frame %d failed: %s", r.Frame, r.Error)
		}
		if _, err := os.Stat(filepath.Join(out, r.Image)); err != nil {
			t.Errorf("frame file missing: %v", err)
		}
	}
}

func TestRunDerivesCycleLength(t *testing.T) {
	arm, atlases := testArmature()

	// 10 frames at animation fps 10 = 1 second; at 20 output fps that
	// is 20 frames.
	results, err := Run(Config{
		Armature:  arm,
		Atlases:   atlases,
		Layers:    []LayerSpec{{Animation: "spin", Weight: 1, Loop: true}},
		OutputDir: t.TempDir(),
		FPS:       20,
		Width:     16,
		Height:    16,
		Workers:   2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 20 {
		t.Fatalf("derived %d frames, want 20", len(results))
	}
}

func TestRunUnknownAnimation(t *testing.T) {
	arm, atlases := testArmature()
	_, err := Run(Config{
		Armature:  arm,
		Atlases:   atlases,
		Layers:    []LayerSpec{{Animation: "fly", Weight: 1}},
		OutputDir: t.TempDir(),
		Width:     16,
		Height:    16,
	})
	if err == nil {
		t.Fatal("unknown animation accepted")
	}
}

func TestRunUnknownStyle(t *testing.T) {
	arm, atlases := testArmature()
	_, err := Run(Config{
		Armature:  arm,
		Atlases:   atlases,
		Layers:    []LayerSpec{{Animation: "spin", Weight: 1}},
		Styles:    []string{"nope"},
		OutputDir: t.TempDir(),
		Width:     16,
		Height:    16,
	})
	if err == nil {
		t.Fatal("unknown style accepted")
	}
}

func TestRunNoLayers(t *testing.T) {
	arm, atlases := testArmature()
	_, err := Run(Config{Armature: arm, Atlases: atlases, OutputDir: t.TempDir(), Width: 16, Height: 16})
	if err == nil {
		t.Fatal("empty layer list accepted")
	}
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")
	results := []Result{
		{Frame: 0, Image: "frame_0000.webp", Success: true},
		{Frame: 1, Image: "frame_0001.webp", Success: false, Error: "boom"},
		{Frame: 2, Image: "frame_0002.webp", Success: true},
	}
	if err := WriteManifest(path, "spin", 10, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.Contains(s, `"animation": "spin"`) || !strings.Contains(s, "frame_0002.webp") {
		t.Errorf("manifest missing fields: %s", s)
	}
	if strings.Contains(s, "frame_0001.webp") {
		t.Errorf("failed frame included in manifest: %s", s)
	}
}
