// Package installer makes a requested shellcheck version available on the
// executable search path, reusing the tool cache when it already holds that
// version and downloading the upstream release archive otherwise.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ZebulonRouseFrantzich/setup-shellcheck/internal/platform"
)

// ToolName is the tool identifier used for cache keys and artifact names.
const ToolName = "shellcheck"

// ErrDownloadOrExtract wraps failures fetching, unpacking or caching the archive.
var ErrDownloadOrExtract = errors.New("download or extract failed")

// VersionResolver turns a version specifier into a concrete version.
type VersionResolver interface {
	ResolveVersion(ctx context.Context, specifier string) (string, error)
}

// ToolCache finds and stores installed tool directories.
type ToolCache interface {
	Find(tool, version, arch string) string
	CacheDir(ctx context.Context, src, tool, version, arch string) (string, error)
}

// Downloader fetches an archive to a local file.
type Downloader interface {
	DownloadTool(ctx context.Context, url string) (string, error)
}

// Extractor unpacks an archive into a new directory.
type Extractor interface {
	ExtractTar(ctx context.Context, archivePath string) (string, error)
}

// PathRegistrar puts a directory on the executable search path.
type PathRegistrar interface {
	AddPath(dir string) error
}

// Config holds the collaborators and inputs of an Installer.
type Config struct {
	// Version is "latest" or an explicit MAJOR.MINOR.PATCH version.
	Version string
	// ReleaseURL is the upstream repository web URL (default DefaultReleaseURL).
	ReleaseURL string

	Detector   platform.Detector
	Resolver   VersionResolver
	Cache      ToolCache
	Downloader Downloader
	Extractor  Extractor
	Path       PathRegistrar
	Logger     *zap.SugaredLogger
}

// Result describes a completed installation.
type Result struct {
	Version     string
	InstallRoot string
	BinDir      string
	CacheHit    bool
}

// Installer orchestrates version resolution, cache lookup, download and
// search path registration.
type Installer struct {
	version    string
	releaseURL string
	detector   platform.Detector
	resolver   VersionResolver
	cache      ToolCache
	downloader Downloader
	extractor  Extractor
	path       PathRegistrar
	log        *zap.SugaredLogger
}

// New creates an installer.
func New(config Config) (*Installer, error) {
	if config.Version == "" {
		return nil, fmt.Errorf("Version is required")
	}

	missing := []string{}
	if config.Detector == nil {
		missing = append(missing, "Detector")
	}
	if config.Resolver == nil {
		missing = append(missing, "Resolver")
	}
	if config.Cache == nil {
		missing = append(missing, "Cache")
	}
	if config.Downloader == nil {
		missing = append(missing, "Downloader")
	}
	if config.Extractor == nil {
		missing = append(missing, "Extractor")
	}
	if config.Path == nil {
		missing = append(missing, "Path")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s required", strings.Join(missing, ", "))
	}

	releaseURL := strings.TrimSuffix(config.ReleaseURL, "/")
	if releaseURL == "" {
		releaseURL = DefaultReleaseURL
	}

	log := config.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Installer{
		version:    config.Version,
		releaseURL: releaseURL,
		detector:   config.Detector,
		resolver:   config.Resolver,
		cache:      config.Cache,
		downloader: config.Downloader,
		extractor:  config.Extractor,
		path:       config.Path,
		log:        log,
	}, nil
}

// EnsureInstalled resolves the requested version, installs it from the cache
// or the upstream release, and registers its directory on the search path.
// Nothing is registered unless every earlier step succeeded.
func (i *Installer) EnsureInstalled(ctx context.Context) (*Result, error) {
	info, err := i.detector.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}
	i.log.Debugf("Host: os=%s arch=%s distro=%s %s", info.OS, info.Arch, info.Platform, info.Version)

	osToken, archToken, err := info.Tokens()
	if err != nil {
		return nil, err
	}

	version, err := i.resolver.ResolveVersion(ctx, i.version)
	if err != nil {
		return nil, err
	}

	result := &Result{Version: version}

	if toolPath := i.cache.Find(ToolName, version, archToken); toolPath != "" {
		i.log.Infof("Found in cache @ %s", toolPath)
		result.InstallRoot = toolPath
		result.CacheHit = true
	} else {
		toolPath, err := i.download(ctx, version, osToken, archToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownloadOrExtract, err)
		}
		i.log.Infof("Downloaded to %s", toolPath)
		result.InstallRoot = toolPath
	}

	result.BinDir = filepath.Join(result.InstallRoot, fmt.Sprintf("%s-v%s", ToolName, version))
	if err := checkExecutable(filepath.Join(result.BinDir, ToolName)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadOrExtract, err)
	}

	if err := i.path.AddPath(result.BinDir); err != nil {
		return nil, fmt.Errorf("add %s to PATH: %w", result.BinDir, err)
	}
	i.log.Debugf("Added %s to PATH", result.BinDir)

	return result, nil
}

func (i *Installer) download(ctx context.Context, version, osToken, archToken string) (string, error) {
	url := DownloadURL(i.releaseURL, i.version, version, osToken, archToken)
	i.log.Infof("Downloading from %s", url)

	archivePath, err := i.downloader.DownloadTool(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer os.Remove(archivePath)

	extractedPath, err := i.extractor.ExtractTar(ctx, archivePath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", archivePath, err)
	}
	defer os.RemoveAll(extractedPath)

	toolPath, err := i.cache.CacheDir(ctx, extractedPath, ToolName, version, archToken)
	if err != nil {
		return "", fmt.Errorf("cache %s: %w", extractedPath, err)
	}

	return toolPath, nil
}

// checkExecutable verifies path is a regular file with an execute bit set.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s not found in archive: %w", filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if info.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("%s is not executable", path)
	}
	return nil
}
