package bootstrap

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"pkt.systems/folio/internal/appconfig"
	"pkt.systems/folio/internal/content"
	"pkt.systems/folio/internal/version"
	"pkt.systems/folio/sshserver"
)

// Files represents generated bootstrap artifacts.
type Files struct {
	ConfigYAML    []byte
	ComposeYAML   []byte
	Containerfile []byte
}

// Options controls optional bootstrap behaviors.
type Options struct {
	ImageTag    string
	SkipContent bool
	Overrides   []ConfigOverride
}

// ConfigOverride sets a dotted config path, e.g. site.name, in the generated configs.
type ConfigOverride struct {
	Path  string
	Value any
}

// BundlePaths lists output locations for generated container artifacts.
type BundlePaths struct {
	ConfigPath    string
	ComposePath   string
	Containerfile string
}

// Paths reports where bootstrap wrote its outputs.
type Paths struct {
	HostConfigPath string
	ContentDir     string
	HostKeyPath    string
	Bundle         BundlePaths
}

const (
	hostConfigName      = "config.yaml"
	containerConfigName = "config-for-container.yaml"
	contentDirName      = "content"
	stateDirName        = "state"
	hostKeyName         = "ssh_host_key"
	defaultImage        = "docker.io/pktsystems/folio"
	containerRoot       = "/folio"
)

type templateData struct {
	ConfigFile     string
	Image          string
	HostConfigPath string
	HostContentDir string
	HostStateDir   string
}

// DefaultFiles returns container-oriented bootstrap files with paths templated
// for the invoking user's home directory.
func DefaultFiles(opts Options) (Files, error) {
	return renderFiles(templateData{
		ConfigFile:     containerConfigName,
		Image:          tagImage(defaultImage, resolveImageTag(opts.ImageTag)),
		HostConfigPath: "${HOME}/.folio/" + containerConfigName,
		HostContentDir: "${HOME}/.folio/" + contentDirName,
		HostStateDir:   "${HOME}/.folio/" + stateDirName,
	}, opts.Overrides)
}

// ContainerConfig returns the config used inside the container image.
func ContainerConfig() (appconfig.Config, error) {
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		return appconfig.Config{}, err
	}
	cfg.ConfigVersion = appconfig.CurrentConfigVersion
	cfg.ContentDir = containerRoot + "/" + contentDirName
	cfg.SSH.HostKeyPath = containerRoot + "/" + stateDirName + "/" + hostKeyName
	return cfg, nil
}

// HostConfig returns a config rooted at dir.
func HostConfig(dir string) (appconfig.Config, error) {
	cfg, err := appconfig.DefaultConfig()
	if err != nil {
		return appconfig.Config{}, err
	}
	cfg.ConfigVersion = appconfig.CurrentConfigVersion
	cfg.ContentDir = filepath.Join(dir, contentDirName)
	cfg.SSH.HostKeyPath = filepath.Join(dir, stateDirName, hostKeyName)
	return cfg, nil
}

// WriteFiles writes the container bundle to the output directory.
func WriteFiles(outputDir string, files Files, overwrite bool) (BundlePaths, error) {
	if strings.TrimSpace(outputDir) == "" {
		return BundlePaths{}, fmt.Errorf("output directory is required")
	}
	paths := BundlePaths{
		ConfigPath:    filepath.Join(outputDir, containerConfigName),
		ComposePath:   filepath.Join(outputDir, "docker-compose.yaml"),
		Containerfile: filepath.Join(outputDir, "Containerfile"),
	}
	outputs := []struct {
		path string
		data []byte
	}{
		{paths.ConfigPath, files.ConfigYAML},
		{paths.ComposePath, files.ComposeYAML},
		{paths.Containerfile, files.Containerfile},
	}
	if !overwrite {
		for _, out := range outputs {
			if _, err := os.Stat(out.path); err == nil {
				return BundlePaths{}, fmt.Errorf("file already exists: %s", out.path)
			}
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BundlePaths{}, err
	}
	for _, out := range outputs {
		if err := os.WriteFile(out.path, out.data, 0o644); err != nil {
			return BundlePaths{}, err
		}
	}
	return paths, nil
}

// WriteBootstrap writes a ready-to-serve site into outputDir: a host config
// pointing at outputDir/content, the starter content, an SSH host key and the
// container bundle.
func WriteBootstrap(outputDir string, overwrite bool, opts Options) (Paths, error) {
	if strings.TrimSpace(outputDir) == "" {
		return Paths{}, fmt.Errorf("output directory is required")
	}
	rootDir, err := filepath.Abs(outputDir)
	if err != nil {
		rootDir = outputDir
	}
	hostCfg, err := HostConfig(rootDir)
	if err != nil {
		return Paths{}, err
	}
	if len(opts.Overrides) > 0 {
		if hostCfg, err = applyOverrides(hostCfg, opts.Overrides); err != nil {
			return Paths{}, err
		}
	}
	hostPath := filepath.Join(rootDir, hostConfigName)
	if !overwrite {
		if _, err := os.Stat(hostPath); err == nil {
			return Paths{}, fmt.Errorf("file already exists: %s", hostPath)
		}
	}

	bundle, err := renderFiles(templateData{
		ConfigFile:     containerConfigName,
		Image:          tagImage(defaultImage, resolveImageTag(opts.ImageTag)),
		HostConfigPath: filepath.Join(rootDir, containerConfigName),
		HostContentDir: hostCfg.ContentDir,
		HostStateDir:   filepath.Join(rootDir, stateDirName),
	}, opts.Overrides)
	if err != nil {
		return Paths{}, err
	}
	bundlePaths, err := WriteFiles(rootDir, bundle, overwrite)
	if err != nil {
		return Paths{}, err
	}

	if !opts.SkipContent {
		if err := CopyStarterContent(hostCfg.ContentDir, overwrite); err != nil {
			return Paths{}, err
		}
	}
	if _, err := sshserver.EnsureHostKey(hostCfg.SSH.HostKeyPath); err != nil {
		return Paths{}, err
	}
	if _, err := appconfig.Write(hostPath, hostCfg, overwrite); err != nil {
		return Paths{}, err
	}
	return Paths{
		HostConfigPath: hostPath,
		ContentDir:     hostCfg.ContentDir,
		HostKeyPath:    hostCfg.SSH.HostKeyPath,
		Bundle:         bundlePaths,
	}, nil
}

// CopyStarterContent writes the embedded starter posts and projects to destDir.
func CopyStarterContent(destDir string, overwrite bool) error {
	return copyTree(content.Starter(), destDir, overwrite)
}

func copyTree(src fs.FS, destDir string, overwrite bool) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}
	return fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		clean := filepath.Clean(filepath.FromSlash(path))
		if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
			return fmt.Errorf("invalid content path: %s", path)
		}
		target := filepath.Join(destDir, clean)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if !overwrite {
			flags = os.O_CREATE | os.O_WRONLY | os.O_EXCL
		}
		in, err := src.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()
		out, err := os.OpenFile(target, flags, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return fmt.Errorf("file already exists: %s", target)
			}
			return err
		}
		if _, err := io.Copy(out, in); err != nil {
			_ = out.Close()
			return err
		}
		return out.Close()
	})
}

func renderFiles(data templateData, overrides []ConfigOverride) (Files, error) {
	cfg, err := ContainerConfig()
	if err != nil {
		return Files{}, err
	}
	if len(overrides) > 0 {
		if cfg, err = applyOverrides(cfg, overrides); err != nil {
			return Files{}, err
		}
	}
	configYAML, err := appconfig.Marshal(cfg)
	if err != nil {
		return Files{}, err
	}
	composeYAML, err := renderTemplate("templates/docker-compose.yaml.tmpl", data)
	if err != nil {
		return Files{}, err
	}
	containerfile, err := renderTemplate("templates/Containerfile.tmpl", data)
	if err != nil {
		return Files{}, err
	}
	return Files{
		ConfigYAML:    configYAML,
		ComposeYAML:   composeYAML,
		Containerfile: containerfile,
	}, nil
}

func renderTemplate(name string, data templateData) ([]byte, error) {
	raw, err := readEmbeddedFile(name)
	if err != nil {
		return nil, err
	}
	tpl, err := template.New(filepath.Base(name)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func applyOverrides(cfg appconfig.Config, overrides []ConfigOverride) (appconfig.Config, error) {
	raw, err := appconfig.Marshal(cfg)
	if err != nil {
		return cfg, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return cfg, err
	}
	for _, override := range overrides {
		if err := setOverrideValue(data, override.Path, override.Value); err != nil {
			return cfg, err
		}
	}
	updated, err := yaml.Marshal(data)
	if err != nil {
		return cfg, err
	}
	var next appconfig.Config
	if err := yaml.Unmarshal(updated, &next); err != nil {
		return cfg, fmt.Errorf("apply config overrides: %w", err)
	}
	return next, nil
}

func setOverrideValue(root map[string]any, path string, value any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config override path is required")
	}
	parts := strings.Split(path, ".")
	node := root
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return fmt.Errorf("invalid config override path %q", path)
		}
		if i == len(parts)-1 {
			node[part] = value
			return nil
		}
		next, ok := node[part]
		if !ok || next == nil {
			child := map[string]any{}
			node[part] = child
			node = child
			continue
		}
		child, ok := toStringMap(next)
		if !ok {
			return fmt.Errorf("config override %q: %q is not a map", path, part)
		}
		node[part] = child
		node = child
	}
	return nil
}

func toStringMap(value any) (map[string]any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, true
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			ks, ok := key.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// ParseOverride parses a key=value flag. Values are decoded as YAML so that
// numbers and booleans keep their type.
func ParseOverride(raw string) (ConfigOverride, error) {
	key, value, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return ConfigOverride{}, fmt.Errorf("invalid override %q: expected key=value", raw)
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(value), &decoded); err != nil || decoded == nil {
		decoded = value
	}
	return ConfigOverride{Path: strings.TrimSpace(key), Value: decoded}, nil
}

func resolveImageTag(override string) string {
	if value := strings.TrimSpace(override); value != "" {
		return value
	}
	value := strings.TrimSpace(version.Current())
	if value == "" {
		return "v0.0.0-unknown"
	}
	return value
}

func tagImage(base, tag string) string {
	base = stripImageTag(base)
	if base == "" {
		return ""
	}
	if strings.TrimSpace(tag) == "" {
		tag = "v0.0.0-unknown"
	}
	return base + ":" + tag
}

func stripImageTag(image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	if at := strings.LastIndex(image, "@"); at != -1 {
		image = image[:at]
	}
	lastSlash := strings.LastIndex(image, "/")
	lastColon := strings.LastIndex(image, ":")
	if lastColon > lastSlash {
		return image[:lastColon]
	}
	return image
}
