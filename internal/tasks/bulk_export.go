package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunebox/internal/formatter"
	"github.com/desertthunder/tunebox/internal/shared"
	"golang.org/x/time/rate"
)

// ManifestFile is written to the output directory of every bulk export.
const ManifestFile = "export_manifest.json"

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: tunebox_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Playlists started per second (default: 5)
}

// PlaylistExportJob is one playlist queued for a worker.
type PlaylistExportJob struct {
	Ref    string
	Export *formatter.Export
}

// PlaylistExportResult is the outcome for a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Songs        int
	Files        []string
	Success      bool
	Error        error
}

// BulkExportResult contains the outcome of [Exporter.BulkExport].
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

// Manifest converts the result into the document written to [ManifestFile].
func (r *BulkExportResult) Manifest(format string) *formatter.Manifest {
	m := &formatter.Manifest{
		ExportedAt:      time.Now().UTC(),
		Format:          format,
		OutputDirectory: r.OutputDirectory,
		Total:           r.TotalPlaylists,
		Successful:      r.SuccessfulExports,
		Failed:          r.FailedExports,
		Playlists:       make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{ID: res.PlaylistID, Name: res.PlaylistName, Songs: res.Songs, Files: res.Files}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}

// Exporter writes library playlists to disk.
type Exporter struct {
	library Library
	logger  *log.Logger
}

// NewExporter creates an Exporter.
func NewExporter(lib Library, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{library: lib, logger: shared.WithLogger(logger, "task", "export")}
}

// BulkExport exports the playlists named by refs (record ids or names) concurrently with rate limiting and progress tracking.
//
// An empty refs exports every playlist. Playlists that cannot be loaded or written are recorded as failures;
// the returned error is reserved for setup and manifest failures.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	refs []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tunebox_export_%d", time.Now().Unix())
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if len(refs) == 0 {
		playlists, err := e.library.ListPlaylists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}
		for _, p := range playlists {
			refs = append(refs, p.Name)
		}
		sendProgress(prog, fetchPlaylistsUpdate(len(refs)))
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalPlaylists:  len(refs),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(refs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlaylistExportJob, len(refs))
	results := make(chan PlaylistExportResult, len(refs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, ref := range refs {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			playlist, songs, err := e.library.PlaylistSongs(ctx, ref)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   ref,
					PlaylistName: fmt.Sprintf("Unknown (%s)", ref),
					Error:        fmt.Errorf("failed to load playlist: %w", err),
				}
				continue
			}

			jobs <- PlaylistExportJob{Ref: ref, Export: &formatter.Export{Playlist: playlist, Songs: songs}}
			sendProgress(prog, exportingPlaylistUpdate(i+1, len(refs), playlist.Name()))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(refs), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("playlist export failed", "playlist", res.PlaylistID, "error", res.Error)
			sendProgress(prog, exportFailedUpdate(completed, len(refs), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := formatter.WriteManifest(result.Manifest(opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			results <- PlaylistExportResult{
				PlaylistID:   job.Export.Playlist.ID(),
				PlaylistName: job.Export.Playlist.Name(),
				Error:        ctx.Err(),
			}
			continue
		default:
		}

		results <- exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist writes a single playlist in the requested format.
func exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.Export.Playlist.ID(),
		PlaylistName: j.Export.Playlist.Name(),
		Songs:        len(j.Export.Songs),
		Files:        []string{},
	}

	files, err := formatter.Write(j.Export, opts.Format, opts.OutputDir)
	if err != nil {
		result.Error = err
		return result
	}
	result.Files = files
	result.Success = true
	return result
}
