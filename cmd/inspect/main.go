package main

import (
	"fmt"
	"os"
	"strings"

	"skelform-renderer/internal/armature"
	"skelform-renderer/internal/skelform"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: inspect <file.skf> [...]")
		os.Exit(1)
	}

	for _, arg := range os.Args[1:] {
		arm, atlases, err := skelform.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s (bones=%d animations=%d styles=%d atlases=%d) ===\n",
			arg, len(arm.Bones), len(arm.Animations), len(arm.Styles), len(atlases))

		fmt.Println("--- BONES ---")
		printBones(arm)

		fmt.Println("--- ANIMATIONS ---")
		for i := range arm.Animations {
			an := &arm.Animations[i]
			keys := 0
			tracks := 0
			for _, ts := range an.Tracks {
				tracks += len(ts)
				for _, tr := range ts {
					keys += len(tr.Keys)
				}
			}
			fmt.Printf("  %q: fps=%g length=%g frames, %d tracks, %d keyframes\n",
				an.Name, an.FPS, an.Length, tracks, keys)
			for bi := range arm.Bones {
				for _, tr := range an.Tracks[bi] {
					first := tr.Keys[0]
					last := tr.Keys[len(tr.Keys)-1]
					fmt.Printf("    %s/%s: %d keys, frames [%g..%g]\n",
						arm.Bones[bi].Name, tr.Channel, len(tr.Keys), first.Frame, last.Frame)
				}
			}
		}

		fmt.Println("--- STYLES ---")
		for i := range arm.Styles {
			st := &arm.Styles[i]
			fmt.Printf("  %q: %d textures\n", st.Name, len(st.Textures))
			for _, tex := range st.Textures {
				extras := ""
				if tex.Tint != nil {
					extras += fmt.Sprintf(" tint=#%02x%02x%02x%02x", tex.Tint.R, tex.Tint.G, tex.Tint.B, tex.Tint.A)
				}
				if tex.ZIndex != nil {
					extras += fmt.Sprintf(" zindex=%g", *tex.ZIndex)
				}
				fmt.Printf("    %q: atlas %d @ (%g,%g) %gx%g%s\n",
					tex.Name, tex.Atlas, tex.Offset[0], tex.Offset[1], tex.Size[0], tex.Size[1], extras)
			}
		}
	}
}

// printBones prints the hierarchy indented by depth.
func printBones(arm *armature.Armature) {
	depth := make([]int, len(arm.Bones))
	for i := range arm.Bones {
		b := &arm.Bones[i]
		if b.Parent >= 0 {
			depth[i] = depth[b.Parent] + 1
		}
		tex := ""
		if b.Tex != "" {
			tex = fmt.Sprintf(" tex=%q", b.Tex)
		}
		fmt.Printf("  %s%s (id=%d) pos=(%g,%g) rot=%g scale=(%g,%g) z=%g%s\n",
			strings.Repeat("  ", depth[i]), b.Name, b.ID,
			b.Rest.Pos[0], b.Rest.Pos[1], b.Rest.Rot,
			b.Rest.Scale[0], b.Rest.Scale[1], b.ZIndex, tex)
	}
}
