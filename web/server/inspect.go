package server

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult is the first surface seen through a pixel
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Object    geometry.Hittable // Top-level object that was hit; nil if unknown
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorHex(c core.Color) string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// inspectPixel casts the camera ray through the center of pixel (x, y),
// counted from the top-left corner, and reports the nearest hit
func inspectPixel(info *scene.WorldInfo, world *scene.World, x, y int) InspectResult {
	width, height := world.CameraConfig.Width, world.CameraConfig.Height()

	// Fixed seed so repeated inspections see the same lens and shutter sample
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(0)))
	s := (float64(x) + 0.5) / float64(width)
	t := (float64(height-1-y) + 0.5) / float64(height)
	ray := world.Camera.GetRay(s, t, sampler)

	hit, ok := world.NearestHit(ray, 0.001, math.Inf(1), sampler)
	if !ok {
		return InspectResult{Hit: false}
	}

	// The BVH does not say which object it hit, so find the top-level
	// object with the same intersection
	for _, object := range info.Objects {
		if objectHit, objectIsHit := object.Hit(ray, 0.001, hit.T+1e-6, sampler); objectIsHit {
			if math.Abs(objectHit.T-hit.T) < 1e-9 {
				return InspectResult{Hit: true, HitRecord: hit, Object: object}
			}
		}
	}
	return InspectResult{Hit: true, HitRecord: hit}
}

// extractMaterialInfo describes mat, evaluating textures at the hit
func extractMaterialInfo(mat material.Material, hit *material.HitRecord) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["color"] = colorHex(albedo)
		properties["texture"] = fmt.Sprintf("%T", m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["color"] = colorHex(albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	case *material.Dielectric:
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["color"] = colorHex(m.Color)
		return "dielectric", properties

	case *material.DiffuseLight:
		emission := m.Emission.Evaluate(hit.UV, hit.Point)
		properties["emission"] = [3]float64{emission.R, emission.G, emission.B}
		properties["color"] = colorHex(emission)
		return "diffuse_light", properties

	case *material.Isotropic:
		albedo := m.Albedo.Evaluate(hit.UV, hit.Point)
		properties["albedo"] = [3]float64{albedo.R, albedo.G, albedo.B}
		properties["sampled"] = m.Sampled
		return "isotropic", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a top-level object
func extractGeometryInfo(object geometry.Hittable, time0, time1 float64) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if object == nil {
		return "unknown", properties
	}
	if box, ok := object.BoundingBox(time0, time1); ok {
		properties["boundingBox"] = map[string]interface{}{
			"min": vecArray(box.Min),
			"max": vecArray(box.Max),
		}
	}

	switch geom := object.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.MovingSphere:
		properties["center0"] = vecArray(geom.Center0)
		properties["center1"] = vecArray(geom.Center1)
		properties["radius"] = geom.Radius
		return "moving_sphere", properties

	case *geometry.XYRect:
		return "xy_rect", properties

	case *geometry.XZRect:
		return "xz_rect", properties

	case *geometry.YZRect:
		return "yz_rect", properties

	case *geometry.RenderBox:
		properties["min"] = vecArray(geom.Min)
		properties["max"] = vecArray(geom.Max)
		return "box", properties

	case *geometry.ConstantMedium:
		boundaryType, _ := extractGeometryInfo(geom.Boundary, time0, time1)
		properties["boundary"] = boundaryType
		return "constant_medium", properties

	case *geometry.Transform:
		innerType, innerProps := extractGeometryInfo(geom.Object, time0, time1)
		properties["object"] = map[string]interface{}{
			"type":       innerType,
			"properties": innerProps,
		}
		return "transform", properties

	case *geometry.HittableList:
		return "list", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports what the camera sees through one pixel
func (s *Server) handleInspect(c echo.Context) error {
	var req RenderRequest
	if err := parseSceneParams(c.QueryParams(), &req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
	}

	info, world, err := buildWorld(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	width, height := world.CameraConfig.Width, world.CameraConfig.Height()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
	}

	result := inspectPixel(info, world, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	hit := result.HitRecord
	materialType, materialProps := extractMaterialInfo(hit.Material, hit)
	geometryType, geometryProps := extractGeometryInfo(result.Object, world.CameraConfig.Time0, world.CameraConfig.Time1)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
