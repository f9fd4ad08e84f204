package scene

import (
	"sort"
	"strings"

	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"golang.org/x/xerrors"
)

// SceneInfo describes a built-in scenario
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Options tune how a scenario is built
type Options struct {
	Camera      geometry.CameraConfig // Non-zero fields override the scenario's camera
	TexturePath string                // Image used by the textures scenario; empty selects a procedural image
	Seed        int64                 // Seed for randomly placed objects
}

// Builder constructs a scenario's description
type Builder func(opts Options) (*WorldInfo, error)

// Scenario pairs metadata with its builder
type Scenario struct {
	Info  SceneInfo
	Build Builder
}

const (
	groupClassic  = "Classic Scenes"
	groupShowcase = "Showcase"
	groupTest     = "Test Scenes"
)

var scenarios = []Scenario{
	{SceneInfo{ID: "cornell", Name: "Cornell Box", Description: "Cornell box with a metal and a diffuse block", Group: groupClassic}, NewCornellBox},
	{SceneInfo{ID: "cornell-smoke", Name: "Cornell Smoke", Description: "Cornell box with blocks of smoke and fog", Group: groupClassic}, NewCornellSmoke},
	{SceneInfo{ID: "spheres", Name: "Random Spheres", Description: "Field of random spheres with motion blur and depth of field", Group: groupClassic}, NewRandomSpheres},
	{SceneInfo{ID: "textures", Name: "Textures", Description: "Checker, Perlin, image and multiplied textures", Group: groupTest}, NewTextureScene},
	{SceneInfo{ID: "red-light", Name: "Red Light", Description: "A single red emitting sphere", Group: groupTest}, NewRedLightScene},
	{SceneInfo{ID: "final", Name: "Final Scene", Description: "Boxes, media, motion blur and transformed instances", Group: groupShowcase}, NewFinalScene},
}

// Lookup finds a scenario by ID
func Lookup(id string) (Scenario, error) {
	for _, s := range scenarios {
		if s.Info.ID == id {
			return s, nil
		}
	}
	return Scenario{}, xerrors.Errorf("unknown scene %q (available: %s)", id, strings.Join(ScenarioIDs(), ", "))
}

// ScenarioIDs lists every scenario ID in registry order
func ScenarioIDs() []string {
	ids := make([]string, len(scenarios))
	for i, s := range scenarios {
		ids[i] = s.Info.ID
	}
	return ids
}

// Build looks up a scenario, constructs it and builds its world
func Build(id string, opts Options) (*World, error) {
	s, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	info, err := s.Build(opts)
	if err != nil {
		return nil, xerrors.Errorf("while constructing scene %q: %w", id, err)
	}
	if info.Name == "" {
		info.Name = id
	}
	return info.BuildWorld()
}

// ListAllScenes returns the scenarios grouped by category, classic first
// and the rest alphabetically
func ListAllScenes() ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, s := range scenarios {
		info := s.Info
		if info.Name == "" {
			info.Name = titleCase(info.ID)
		}
		if info.DisplayName == "" {
			info.DisplayName = info.Name
		}
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != groupClassic {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if classic, exists := groupMap[groupClassic]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: groupClassic, Scenes: classic})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-smoke" -> "Cornell Smoke"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
