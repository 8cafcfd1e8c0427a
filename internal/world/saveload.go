package world

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"sandworld/internal/chunk"
	"sandworld/internal/matter"
	"sandworld/internal/object"
)

// objectRecord is one manifest entry of a saved pixel object.
type objectRecord struct {
	ID     int        `json:"id"`
	Pos    [2]float32 `json:"pos"`
	Angle  float32    `json:"angle"`
	LinVel [2]float32 `json:"lin_vel"`
	AngVel float32    `json:"ang_vel"`
	Matter uint8      `json:"matter"`
}

const (
	mattersFile  = "matters.json"
	manifestFile = "objects.json"
	objectsDir   = "objects"
)

// Save writes the map to dir: chunk images at the top level, the matter
// table, and every object as an image plus a manifest entry.
func (w *World) Save(dir string) error {
	if err := w.chunks.SaveTo(dir); err != nil {
		return err
	}
	if err := w.table.Save(filepath.Join(dir, mattersFile)); err != nil {
		return err
	}
	objDir := filepath.Join(dir, objectsDir)
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	var records []objectRecord
	var saveErr error
	id := 0
	w.objects.Each(func(_ object.Handle, o *object.Object) {
		if saveErr != nil {
			return
		}
		name := filepath.Join(objDir, fmt.Sprintf("%d.png", id))
		if err := chunk.SaveImage(name, o.Data.ToImage()); err != nil {
			saveErr = err
			return
		}
		records = append(records, objectRecord{
			ID:     id,
			Pos:    [2]float32{o.Pos.X(), o.Pos.Y()},
			Angle:  o.Angle,
			LinVel: [2]float32{o.Vel.X(), o.Vel.Y()},
			AngVel: o.AngVel,
			Matter: o.Matter,
		})
		id++
	})
	if saveErr != nil {
		return saveErr
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("world: save %s: %w", manifestFile, err)
	}
	return nil
}

// Load replaces the world's map with the contents of dir. A missing
// matter table or object manifest keeps the current one; a missing or
// unreadable object image skips that object.
func (w *World) Load(dir string) error {
	if path := filepath.Join(dir, mattersFile); fileExists(path) {
		t, err := matter.Load(path)
		if err != nil {
			return fmt.Errorf("world: load %s: %w", path, err)
		}
		w.table.Definitions = t.Definitions
		w.table.Empty = t.Empty
		w.engine.SetTable(w.table)
	}

	var handles []object.Handle
	w.objects.Each(func(h object.Handle, _ *object.Object) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		w.despawn(h)
	}

	if err := w.chunks.LoadFrom(dir); err != nil {
		return err
	}

	path := filepath.Join(dir, manifestFile)
	if !fileExists(path) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("world: load %s: %w", path, err)
	}
	var records []objectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("world: load %s: %w", path, err)
	}
	for _, r := range records {
		name := filepath.Join(dir, objectsDir, fmt.Sprintf("%d.png", r.ID))
		img, err := loadPNG(name)
		if err != nil {
			log.Printf("world: skipping object %d: %v", r.ID, err)
			continue
		}
		_, err = w.SpawnObject(img, r.Matter,
			mgl32.Vec2{r.Pos[0], r.Pos[1]}, mgl32.Vec2{r.LinVel[0], r.LinVel[1]},
			r.Angle, r.AngVel)
		if err != nil {
			log.Printf("world: skipping object %d: %v", r.ID, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func loadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
