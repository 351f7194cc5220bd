// Package commands implements the builtin commands bundled with every
// Krema application: greet/calculate (spec §8 scenarios 1-2), fs:* (scenario
// 3), and window:* (scenario 5). They double as worked examples of the
// registry.Descriptor shape a plugin or application author would write.
package commands

import (
	"context"
	"fmt"

	capfs "github.com/krema-build/krema/internal/capability/fs"
	"github.com/krema-build/krema/internal/errors"
	"github.com/krema-build/krema/internal/registry"
	"github.com/krema-build/krema/internal/window"
)

// RegisterCore registers every builtin command descriptor against reg,
// wiring the window:* family against wm. Call once at startup before
// reg.Freeze().
func RegisterCore(reg *registry.Registry, wm *window.Manager) error {
	descriptors := []*registry.Descriptor{
		greetDescriptor(),
		calculateDescriptor(),
		fsReadTextFileDescriptor(),
		fsWriteTextFileDescriptor(),
		fsReadDirDescriptor(),
		fsExistsDescriptor(),
		fsStatDescriptor(),
		windowCreateDescriptor(wm),
		windowListDescriptor(wm),
		windowCloseDescriptor(wm),
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func greetDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "greet",
		Params: []registry.Param{
			{Name: "name", Type: registry.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return fmt.Sprintf("Hello, %s!", args["name"].(string)), nil
		},
	}
}

func calculateDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "calculate",
		Params: []registry.Param{
			{Name: "a", Type: registry.TypeNumber, Required: true},
			{Name: "b", Type: registry.TypeNumber, Required: true},
			{Name: "operation", Type: registry.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			a := args["a"].(float64)
			b := args["b"].(float64)
			switch args["operation"].(string) {
			case "add":
				return a + b, nil
			case "subtract":
				return a - b, nil
			case "multiply":
				return a * b, nil
			case "divide":
				if b == 0 {
					return nil, errors.E(errors.BadRequest, "division by zero")
				}
				return a / b, nil
			default:
				return nil, errors.E(errors.BadRequest, "unknown operation: "+args["operation"].(string))
			}
		},
	}
}

func fsReadTextFileDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "fs:readTextFile",
		Params: []registry.Param{
			{Name: "path", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"fs:read"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return capfs.ReadTextFile(args["path"].(string))
		},
	}
}

func fsWriteTextFileDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "fs:writeTextFile",
		Params: []registry.Param{
			{Name: "path", Type: registry.TypeString, Required: true},
			{Name: "content", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"fs:write"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path := args["path"].(string)
			content := args["content"].(string)
			if err := capfs.WriteTextFile(path, content); err != nil {
				return nil, err
			}
			return nil, nil
		},
	}
}

func fsReadDirDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "fs:readDir",
		Params: []registry.Param{
			{Name: "path", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"fs:read"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			entries, err := capfs.ReadDir(args["path"].(string))
			if err != nil {
				return nil, err
			}
			out := make([]map[string]any, len(entries))
			for i, e := range entries {
				out[i] = map[string]any{"name": e.Name, "isDir": e.IsDir}
			}
			return out, nil
		},
	}
}

func fsExistsDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "fs:exists",
		Params: []registry.Param{
			{Name: "path", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"fs:read"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return capfs.Exists(args["path"].(string)), nil
		},
	}
}

func fsStatDescriptor() *registry.Descriptor {
	return &registry.Descriptor{
		Name: "fs:stat",
		Params: []registry.Param{
			{Name: "path", Type: registry.TypeString, Required: true},
		},
		RequiredCapabilities: []string{"fs:read"},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			stat, err := capfs.StatFile(args["path"].(string))
			if err != nil {
				return nil, err
			}
			return map[string]any{"size": stat.Size, "modTime": stat.ModTime, "isDir": stat.IsDir}, nil
		},
	}
}

func windowCreateDescriptor(wm *window.Manager) *registry.Descriptor {
	return &registry.Descriptor{
		Name: "window:create",
		Params: []registry.Param{
			{Name: "title", Type: registry.TypeString, Required: false, Default: ""},
			{Name: "width", Type: registry.TypeNumber, Required: false, Default: float64(800)},
			{Name: "height", Type: registry.TypeNumber, Required: false, Default: float64(600)},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			label, err := wm.Create(window.Options{
				Title:  args["title"].(string),
				Width:  int(args["width"].(float64)),
				Height: int(args["height"].(float64)),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"label": label}, nil
		},
	}
}

func windowListDescriptor(wm *window.Manager) *registry.Descriptor {
	return &registry.Descriptor{
		Name: "window:list",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return wm.List(), nil
		},
	}
}

func windowCloseDescriptor(wm *window.Manager) *registry.Descriptor {
	return &registry.Descriptor{
		Name: "window:close",
		Params: []registry.Param{
			{Name: "label", Type: registry.TypeString, Required: true},
		},
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return nil, wm.Close(args["label"].(string))
		},
	}
}
