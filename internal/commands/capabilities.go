package commands

import (
	"context"
	"time"

	"github.com/krema-build/krema/internal/capability/clipboard"
	"github.com/krema-build/krema/internal/capability/dialog"
	"github.com/krema-build/krema/internal/capability/dock"
	"github.com/krema-build/krema/internal/capability/httpclient"
	"github.com/krema-build/krema/internal/capability/notification"
	"github.com/krema-build/krema/internal/capability/screen"
	"github.com/krema-build/krema/internal/capability/securestorage"
	"github.com/krema-build/krema/internal/capability/shell"
	"github.com/krema-build/krema/internal/capability/shortcut"
	"github.com/krema-build/krema/internal/capability/store"
	"github.com/krema-build/krema/internal/capability/tray"
	"github.com/krema-build/krema/internal/events"
	"github.com/krema-build/krema/internal/registry"
)

// RegisterCapabilities wires every native capability module (spec §4.8)
// into reg as a namespaced family of commands, constructing one
// per-platform backend instance per module for the lifetime of the
// process. Call once at startup alongside RegisterCore, before
// reg.Freeze().
func RegisterCapabilities(reg *registry.Registry, em *events.Emitter, appIdentifier string) error {
	descriptors := []*registry.Descriptor{}
	descriptors = append(descriptors, trayDescriptors(tray.New(), em)...)
	descriptors = append(descriptors, clipboardDescriptors(clipboard.New())...)
	descriptors = append(descriptors, dialogDescriptors(dialog.New())...)
	descriptors = append(descriptors, notificationDescriptors(notification.New())...)
	descriptors = append(descriptors, shellDescriptors()...)
	descriptors = append(descriptors, securestorageDescriptors(securestorage.New(appIdentifier))...)
	descriptors = append(descriptors, screenDescriptors(screen.New())...)
	descriptors = append(descriptors, shortcutDescriptors(shortcut.New(), em)...)
	descriptors = append(descriptors, httpclientDescriptors(httpclient.New(30*time.Second))...)

	appStore, err := store.New(appIdentifier, nil)
	if err != nil {
		return err
	}
	descriptors = append(descriptors, storeDescriptors(appStore)...)
	descriptors = append(descriptors, dockDescriptors(dock.New())...)

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// --- tray ---------------------------------------------------------------

func trayDescriptors(t tray.Tray, em *events.Emitter) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "tray:create",
			Params: []registry.Param{
				{Name: "iconPath", Type: registry.TypeString, Required: true},
				{Name: "tooltip", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "menu", Type: registry.TypeArray, Required: false, Default: []any{}},
			},
			RequiredCapabilities: []string{"tray:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				menu := parseMenuItems(args["menu"])
				err := t.Create(args["iconPath"].(string), args["tooltip"].(string), menu, func(id string) {
					em.Emit("tray:clicked", map[string]any{"id": id})
				})
				return nil, err
			},
		},
		{
			Name: "tray:setTooltip",
			Params: []registry.Param{
				{Name: "tooltip", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"tray:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, t.SetTooltip(args["tooltip"].(string))
			},
		},
		{
			Name: "tray:setMenu",
			Params: []registry.Param{
				{Name: "menu", Type: registry.TypeArray, Required: true},
			},
			RequiredCapabilities: []string{"tray:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, t.SetMenu(parseMenuItems(args["menu"]))
			},
		},
		{
			Name: "tray:showMessage",
			Params: []registry.Param{
				{Name: "title", Type: registry.TypeString, Required: true},
				{Name: "body", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"tray:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, t.ShowMessage(args["title"].(string), args["body"].(string))
			},
		},
		{
			Name:                 "tray:remove",
			RequiredCapabilities: []string{"tray:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, t.Remove()
			},
		},
	}
}

func parseMenuItems(v any) []tray.MenuItem {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]tray.MenuItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		item := tray.MenuItem{
			ID:       stringField(m, "id"),
			Label:    stringField(m, "label"),
			Disabled: boolField(m, "disabled"),
			Checked:  boolField(m, "checked"),
		}
		if children, ok := m["children"]; ok {
			item.Children = parseMenuItems(children)
		}
		items = append(items, item)
	}
	return items
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// --- clipboard ------------------------------------------------------------

func clipboardDescriptors(c clipboard.Clipboard) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "clipboard:writeText",
			Params: []registry.Param{
				{Name: "text", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"clipboard:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, c.WriteText(args["text"].(string))
			},
		},
		{
			Name:                 "clipboard:readText",
			RequiredCapabilities: []string{"clipboard:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return c.ReadText()
			},
		},
		{
			Name:                 "clipboard:hasText",
			RequiredCapabilities: []string{"clipboard:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return c.HasText()
			},
		},
		{
			Name:                 "clipboard:hasImage",
			RequiredCapabilities: []string{"clipboard:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return c.HasImage()
			},
		},
		{
			Name:                 "clipboard:availableFormats",
			RequiredCapabilities: []string{"clipboard:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return c.AvailableFormats()
			},
		},
	}
}

// --- dialog -----------------------------------------------------------------

func dialogDescriptors(d dialog.Dialogs) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "dialog:openFile",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "multiple", Type: registry.TypeBool, Required: false, Default: false},
				{Name: "filters", Type: registry.TypeArray, Required: false, Default: []any{}},
				{Name: "startDir", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				opts := dialog.OpenFileOptions{
					Title:    args["title"].(string),
					Multiple: args["multiple"].(bool),
					Filters:  parseFilters(args["filters"]),
					StartDir: args["startDir"].(string),
				}
				return d.OpenFile(args["windowLabel"].(string), opts)
			},
		},
		{
			Name: "dialog:saveFile",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "defaultFileName", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "filters", Type: registry.TypeArray, Required: false, Default: []any{}},
				{Name: "startDir", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				opts := dialog.SaveFileOptions{
					Title:           args["title"].(string),
					DefaultFileName: args["defaultFileName"].(string),
					Filters:         parseFilters(args["filters"]),
					StartDir:        args["startDir"].(string),
				}
				return d.SaveFile(args["windowLabel"].(string), opts)
			},
		},
		{
			Name: "dialog:selectFolder",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "startDir", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				opts := dialog.SelectFolderOptions{
					Title:    args["title"].(string),
					StartDir: args["startDir"].(string),
				}
				return d.SelectFolder(args["windowLabel"].(string), opts)
			},
		},
		{
			Name: "dialog:confirm",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: true},
				{Name: "message", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return d.Confirm(args["windowLabel"].(string), args["title"].(string), args["message"].(string))
			},
		},
		{
			Name: "dialog:prompt",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: true},
				{Name: "message", Type: registry.TypeString, Required: true},
				{Name: "defaultValue", Type: registry.TypeString, Required: false, Default: ""},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				value, ok, err := d.Prompt(args["windowLabel"].(string), args["title"].(string), args["message"].(string), args["defaultValue"].(string))
				if err != nil {
					return nil, err
				}
				return map[string]any{"value": value, "ok": ok}, nil
			},
		},
		{
			Name: "dialog:message",
			Params: []registry.Param{
				{Name: "windowLabel", Type: registry.TypeString, Required: true},
				{Name: "title", Type: registry.TypeString, Required: true},
				{Name: "message", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"dialog:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, d.Message(args["windowLabel"].(string), args["title"].(string), args["message"].(string))
			},
		},
	}
}

func parseFilters(v any) []dialog.Filter {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	filters := make([]dialog.Filter, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		extRaw, _ := m["extensions"].([]any)
		exts := make([]string, 0, len(extRaw))
		for _, e := range extRaw {
			if s, ok := e.(string); ok {
				exts = append(exts, s)
			}
		}
		filters = append(filters, dialog.Filter{Name: stringField(m, "name"), Extensions: exts})
	}
	return filters
}

// --- notification -----------------------------------------------------------

func notificationDescriptors(n notification.Notifier) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "notification:show",
			Params: []registry.Param{
				{Name: "title", Type: registry.TypeString, Required: true},
				{Name: "body", Type: registry.TypeString, Required: false, Default: ""},
				{Name: "sound", Type: registry.TypeBool, Required: false, Default: false},
			},
			RequiredCapabilities: []string{"notification:show"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, n.Show(notification.Options{
					Title: args["title"].(string),
					Body:  args["body"].(string),
					Sound: args["sound"].(bool),
				})
			},
		},
	}
}

// --- shell --------------------------------------------------------------

func shellDescriptors() []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "shell:open",
			Params: []registry.Param{
				{Name: "target", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"shell:open"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, shell.Open(ctx, args["target"].(string))
			},
		},
		{
			Name: "shell:revealInFileManager",
			Params: []registry.Param{
				{Name: "path", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"shell:open"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, shell.RevealInFileManager(ctx, args["path"].(string))
			},
		},
		{
			Name: "shell:openWith",
			Params: []registry.Param{
				{Name: "appName", Type: registry.TypeString, Required: true},
				{Name: "path", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"shell:open"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, shell.OpenWith(ctx, args["appName"].(string), args["path"].(string))
			},
		},
		{
			Name: "shell:execute",
			Params: []registry.Param{
				{Name: "name", Type: registry.TypeString, Required: true},
				{Name: "args", Type: registry.TypeArray, Required: false, Default: []any{}},
			},
			RequiredCapabilities: []string{"shell:open", "shell:execute"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				argv := stringSliceArg(args["args"])
				result, err := shell.Execute(ctx, args["name"].(string), argv)
				if err != nil {
					return nil, err
				}
				return map[string]any{"code": result.Code, "stdout": result.Stdout, "stderr": result.Stderr}, nil
			},
		},
	}
}

func stringSliceArg(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// --- securestorage --------------------------------------------------------

func securestorageDescriptors(s securestorage.Store) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "securestorage:set",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
				{Name: "value", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"securestorage:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, s.Set(args["key"].(string), args["value"].(string))
			},
		},
		{
			Name: "securestorage:get",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"securestorage:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				value, ok, err := s.Get(args["key"].(string))
				if err != nil {
					return nil, err
				}
				return map[string]any{"value": value, "ok": ok}, nil
			},
		},
		{
			Name: "securestorage:has",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"securestorage:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.Has(args["key"].(string))
			},
		},
		{
			Name: "securestorage:delete",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"securestorage:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, s.Delete(args["key"].(string))
			},
		},
	}
}

// --- screen ---------------------------------------------------------------

func screenDescriptors(s screen.Screen) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name:                 "screen:displays",
			RequiredCapabilities: []string{"screen:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.Displays()
			},
		},
		{
			Name:                 "screen:cursorPosition",
			RequiredCapabilities: []string{"screen:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.CursorPosition()
			},
		},
		{
			Name:                 "screen:displayUnderCursor",
			RequiredCapabilities: []string{"screen:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.DisplayUnderCursor()
			},
		},
	}
}

// --- shortcut ---------------------------------------------------------------

func shortcutDescriptors(r shortcut.Registry, em *events.Emitter) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "shortcut:register",
			Params: []registry.Param{
				{Name: "accelerator", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"shortcut:register"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				accelerator := args["accelerator"].(string)
				err := r.Register(accelerator, func(fired string) {
					em.Emit("shortcut:triggered", map[string]any{"accelerator": fired})
				})
				return nil, err
			},
		},
		{
			Name: "shortcut:unregister",
			Params: []registry.Param{
				{Name: "accelerator", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"shortcut:register"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, r.Unregister(args["accelerator"].(string))
			},
		},
		{
			Name:                 "shortcut:unregisterAll",
			RequiredCapabilities: []string{"shortcut:register"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, r.UnregisterAll()
			},
		},
	}
}

// --- httpclient -------------------------------------------------------------

func httpclientDescriptors(c *httpclient.Client) []*registry.Descriptor {
	parse := func(args map[string]any) httpclient.Request {
		headers := map[string]string{}
		if raw, ok := args["headers"].(map[string]any); ok {
			for k, v := range raw {
				if s, ok := v.(string); ok {
					headers[k] = s
				}
			}
		}
		timeout := time.Duration(0)
		if secs, ok := args["timeout"].(float64); ok {
			timeout = time.Duration(secs * float64(time.Second))
		}
		return httpclient.Request{
			Method:  args["method"].(string),
			URL:     args["url"].(string),
			Headers: headers,
			Body:    args["body"].(string),
			Timeout: timeout,
		}
	}
	params := []registry.Param{
		{Name: "method", Type: registry.TypeString, Required: true},
		{Name: "url", Type: registry.TypeString, Required: true},
		{Name: "headers", Type: registry.TypeObject, Required: false, Default: map[string]any{}},
		{Name: "body", Type: registry.TypeString, Required: false, Default: ""},
		{Name: "timeout", Type: registry.TypeNumber, Required: false, Default: float64(0)},
	}
	return []*registry.Descriptor{
		{
			Name:                 "http:fetch",
			Params:               params,
			RequiredCapabilities: []string{"net:http"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				resp, err := c.Fetch(ctx, parse(args))
				if err != nil {
					return nil, err
				}
				headers := make(map[string]any, len(resp.Headers))
				for k, v := range resp.Headers {
					headers[k] = v
				}
				return map[string]any{"status": resp.Status, "headers": headers, "body": resp.Body}, nil
			},
		},
		{
			Name:                 "http:fetchJson",
			Params:               params,
			RequiredCapabilities: []string{"net:http"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return c.FetchJSON(ctx, parse(args))
			},
		},
	}
}

// --- store ------------------------------------------------------------------

func storeDescriptors(s store.Store) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "store:get",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"store:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				value, ok, err := s.Get(ctx, args["key"].(string))
				if err != nil {
					return nil, err
				}
				return map[string]any{"value": value, "ok": ok}, nil
			},
		},
		{
			Name: "store:set",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
				{Name: "value", Type: registry.TypeAny, Required: true},
			},
			RequiredCapabilities: []string{"store:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, s.Set(ctx, args["key"].(string), args["value"])
			},
		},
		{
			Name: "store:has",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"store:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.Has(ctx, args["key"].(string))
			},
		},
		{
			Name: "store:delete",
			Params: []registry.Param{
				{Name: "key", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"store:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, s.Delete(ctx, args["key"].(string))
			},
		},
		{
			Name:                 "store:keys",
			RequiredCapabilities: []string{"store:read"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.Keys(ctx)
			},
		},
	}
}

// --- dock -----------------------------------------------------------------

func dockDescriptors(d dock.Dock) []*registry.Descriptor {
	return []*registry.Descriptor{
		{
			Name: "dock:setBadge",
			Params: []registry.Param{
				{Name: "text", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"dock:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, d.SetBadge(args["text"].(string))
			},
		},
		{
			Name: "dock:setIcon",
			Params: []registry.Param{
				{Name: "imagePath", Type: registry.TypeString, Required: true},
			},
			RequiredCapabilities: []string{"dock:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, d.SetIcon(args["imagePath"].(string))
			},
		},
		{
			Name: "dock:setMenu",
			Params: []registry.Param{
				{Name: "menu", Type: registry.TypeArray, Required: false, Default: []any{}},
			},
			RequiredCapabilities: []string{"dock:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, d.SetMenu(parseDockMenuItems(args["menu"]))
			},
		},
		{
			Name: "dock:bounce",
			Params: []registry.Param{
				{Name: "critical", Type: registry.TypeBool, Required: false, Default: false},
			},
			RequiredCapabilities: []string{"dock:write"},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return nil, d.Bounce(args["critical"].(bool))
			},
		},
	}
}

func parseDockMenuItems(v any) []dock.MenuItem {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]dock.MenuItem, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, dock.MenuItem{ID: stringField(m, "id"), Label: stringField(m, "label")})
	}
	return items
}
