package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/3leaps/repostore/internal/config"
	"github.com/3leaps/repostore/internal/device"
	gh "github.com/3leaps/repostore/internal/host/github"
	"github.com/3leaps/repostore/internal/model"
	"github.com/3leaps/repostore/internal/release"
	"github.com/3leaps/repostore/internal/verify"
	"github.com/3leaps/repostore/pkg/apk"
	"github.com/3leaps/repostore/pkg/update"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2

	defaultLogLevel = "info"
)

var version = "dev"

type options struct {
	repo        string
	tag         string
	latest      bool
	abis        string
	installed   string
	destDir     string
	apiBase     string
	minisignKey string
	configPath  string
	logLevel    string
	dryRun      bool
	force       bool
	jsonOut     bool
	version     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("repostore", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.repo, "repo", "", "GitHub repo owner/name")
	fs.StringVar(&o.tag, "tag", "", "release tag (mutually exclusive with --latest)")
	fs.BoolVar(&o.latest, "latest", false, "use the latest release (default when --tag is not set)")
	fs.StringVar(&o.abis, "abi", "", "comma-separated device ABIs, most preferred first (default: from config or host CPU)")
	fs.StringVar(&o.installed, "installed", "", "installed version label (default: from config)")
	fs.StringVar(&o.destDir, "dest-dir", "", "directory to save the APK in (default: config destDir or .)")
	fs.StringVar(&o.apiBase, "api-base", "", "GitHub API base URL (default: $REPOSTORE_API_BASE, config apiBase, or api.github.com)")
	fs.StringVar(&o.minisignKey, "minisign-key", "", "minisign public key; requires a signed checksum file")
	fs.StringVar(&o.configPath, "config", "", "path to YAML config (default: $REPOSTORE_CONFIG)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&o.dryRun, "dry-run", false, "select and compare only, do not download")
	fs.BoolVar(&o.force, "force", false, "download even when already up to date")
	fs.BoolVar(&o.jsonOut, "json", false, "JSON output for CI")
	fs.BoolVar(&o.version, "version", false, "print version")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return &o, nil
}

func validateOptions(o *options) error {
	if o.repo == "" {
		return errors.New("--repo is required")
	}
	if parts := strings.Split(o.repo, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("--repo must be owner/name, got %q", o.repo)
	}
	if o.tag != "" && o.latest {
		return errors.New("--tag and --latest are mutually exclusive")
	}
	return nil
}

func newLogger(w io.Writer, level string, jsonOut bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := log.Options{
		Prefix: "repostore",
		Level:  lvl,
	}
	if jsonOut {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if o.version {
		fmt.Fprintln(stdout, "repostore", version)
		return exitOK
	}

	cfg, err := config.Load(config.FirstNonEmpty(o.configPath, config.PathFromEnv()))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logger, err := newLogger(stderr, config.FirstNonEmpty(o.logLevel, cfg.LogLevel, defaultLogLevel), o.jsonOut)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if err := validateOptions(o); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := execute(ctx, o, cfg, logger)
	if err != nil {
		logger.Error("failed", "repo", o.repo, "err", err)
		return exitError
	}

	if err := writeResult(stdout, res, o.jsonOut); err != nil {
		logger.Error("write output", "err", err)
		return exitError
	}
	return exitOK
}

func execute(ctx context.Context, o *options, cfg *config.Config, logger *log.Logger) (*result, error) {
	abis := device.Resolve(o.abis, cfg.DeviceABIs)
	logger.Debug("device ABIs", "abis", abis)

	client := gh.NewClient(cfg.ResolveAPIBase(o.apiBase), gh.UserAgent(version))
	rel, err := client.FetchRelease(ctx, o.repo, o.tag)
	if err != nil {
		return nil, err
	}
	logger.Debug("release", "tag", rel.TagName, "assets", len(rel.Assets), "prerelease", rel.Prerelease)

	asset, sel, err := release.PickAPK(rel, abis)
	if err != nil {
		return nil, err
	}
	var compatibleAssets []string
	for _, a := range release.CompatibleAPKs(rel, abis) {
		compatibleAssets = append(compatibleAssets, a.Name)
	}
	logger.Debug("compatible APKs", "assets", compatibleAssets)
	compatible := apk.IsAPKCompatible(asset.Name, abis)
	logger.Debug("selected APK", "asset", asset.Name, "reason", sel.Reason, "abi", sel.ABI, "compatible", compatible)
	if !compatible {
		logger.Warn("selected APK targets an ABI the device does not list", "asset", asset.Name, "abis", abis)
	}

	installed := config.FirstNonEmpty(o.installed, cfg.InstalledVersion(o.repo))
	decision, msg := update.DecideUpdate(installed, rel.TagName)

	res := &result{
		Repo:       o.repo,
		Tag:        rel.TagName,
		Asset:      asset.Name,
		URL:        asset.BrowserDownloadUrl,
		Size:       asset.Size,
		Reason:     string(sel.Reason),
		ABI:        sel.ABI,
		ABIs:       abis,
		Compatible: compatible,
		Installed:  installed,
		Decision:   string(decision),
		Message:    msg,
		DryRun:     o.dryRun,

		CompatibleAssets: compatibleAssets,
	}

	if o.dryRun {
		logger.Info("dry run", "status", update.DescribeDecision(decision))
		return res, nil
	}
	if decision == update.DecisionUpToDate && !o.force {
		logger.Info(msg)
		return res, nil
	}

	destDir := config.FirstNonEmpty(o.destDir, cfg.DestDir, ".")
	path, err := fetchVerified(ctx, client, rel, asset, destDir, config.FirstNonEmpty(o.minisignKey, cfg.MinisignKey), logger)
	if err != nil {
		return nil, err
	}
	res.Path = path
	return res, nil
}

// fetchVerified downloads asset into destDir, checking it against the
// release's checksum file when one is published.
func fetchVerified(ctx context.Context, client *gh.Client, rel *model.Release, asset *model.Asset, destDir, minisignKey string, logger *log.Logger) (string, error) {
	name := filepath.Base(asset.Name)
	if name != asset.Name || name == "." || name == ".." {
		return "", fmt.Errorf("refusing unsafe asset name %q", asset.Name)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}
	tmpDir, err := os.MkdirTemp(destDir, ".repostore-*")
	if err != nil {
		return "", fmt.Errorf("mkdir temp: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	apkPath := filepath.Join(tmpDir, name)
	n, err := client.Download(ctx, asset.BrowserDownloadUrl, apkPath)
	if err != nil {
		return "", err
	}
	logger.Info("downloaded", "asset", name, "size", verify.FormatSize(n))

	checksum := verify.FindChecksum(rel.Assets, asset.Name)
	if checksum == nil {
		if minisignKey != "" {
			return "", errors.New("--minisign-key specified but release has no checksum file to verify")
		}
		logger.Warn("no checksum file in release; skipping integrity check", "asset", name)
	} else {
		checksumPath := filepath.Join(tmpDir, filepath.Base(checksum.Name))
		if _, err := client.Download(ctx, checksum.BrowserDownloadUrl, checksumPath); err != nil {
			return "", err
		}
		// #nosec G304 -- checksumPath tmp controlled
		checksumBytes, err := os.ReadFile(checksumPath)
		if err != nil {
			return "", fmt.Errorf("read checksum: %w", err)
		}

		if minisignKey != "" {
			sigAsset := verify.FindChecksumSignature(rel.Assets, checksum.Name)
			if sigAsset == nil {
				return "", fmt.Errorf("--minisign-key specified but no %s.minisig found in release", checksum.Name)
			}
			sigPath := filepath.Join(tmpDir, filepath.Base(sigAsset.Name))
			if _, err := client.Download(ctx, sigAsset.BrowserDownloadUrl, sigPath); err != nil {
				return "", err
			}
			if err := verify.VerifyMinisignSignature(checksumBytes, sigPath, minisignKey); err != nil {
				return "", err
			}
			logger.Info("minisign checksum signature verified", "file", sigAsset.Name)
		}

		algo := verify.DetectChecksumAlgorithm(checksum.Name, "sha256")
		if err := verify.VerifyFileChecksum(apkPath, asset.Name, algo, checksumBytes); err != nil {
			return "", err
		}
		logger.Info("checksum verified", "file", checksum.Name, "algo", algo, "type", verify.DetectChecksumType(checksum.Name))
	}

	finalPath := filepath.Join(destDir, name)
	if err := os.Rename(apkPath, finalPath); err != nil {
		return "", fmt.Errorf("install %s: %w", finalPath, err)
	}
	return finalPath, nil
}
