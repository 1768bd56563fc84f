// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/tunebox/internal/models"
	"github.com/desertthunder/tunebox/internal/shared"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists the accepted values for [Write].
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// Export is a playlist with its songs resolved, in playlist order.
type Export struct {
	Playlist *models.Playlist
	Songs    []*models.Song
}

// TotalDuration sums song durations; unparseable durations count as zero.
func (e *Export) TotalDuration() time.Duration {
	var total time.Duration
	for _, song := range e.Songs {
		if d, ok := shared.ParseDuration(song.Duration()); ok {
			total += d
		}
	}
	return total
}

// BaseName is the file stem used for this export: the playlist record ID.
func (e *Export) BaseName() string {
	return e.Playlist.ID()
}

// ExportToCSV converts an Export to CSV format with columns: Position, Video ID, Title, Channel, Duration, URL, Favorite
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Video ID", "Title", "Channel", "Duration", "URL", "Favorite"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, song := range export.Songs {
		record := []string{
			strconv.Itoa(i + 1),
			song.YouTubeID(),
			song.Title(),
			song.Channel(),
			song.DisplayDuration(),
			shared.WatchURL(song.YouTubeID()),
			strconv.FormatBool(song.IsFavorite()),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to Markdown format with optional cover image
func ExportToMarkdown(export *Export, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer
	p := export.Playlist

	buf.WriteString(fmt.Sprintf("# %s\n\n", p.Name()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if p.Description() != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", p.Description()))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(export.Songs)))
	buf.WriteString(fmt.Sprintf("**Length**: %s\n\n", shared.FormatSeconds(int(export.TotalDuration().Seconds()))))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		favorite := ""
		if song.IsFavorite() {
			favorite = " ★"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) - %s [%s]%s\n",
			i+1, song.Title(), shared.WatchURL(song.YouTubeID()), song.Channel(), song.DisplayDuration(), favorite))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	p := export.Playlist

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", p.Name()))
	if p.Description() != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", p.Description()))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(export.Songs)))

	for i, song := range export.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, song.Channel(), song.Title(), song.DisplayDuration()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts an Export to indented JSON: the playlist document plus full song records.
func ExportToJSON(export *Export) ([]byte, error) {
	songs := export.Songs
	if songs == nil {
		songs = []*models.Song{}
	}
	data, err := json.MarshalIndent(struct {
		Playlist *models.Playlist `json:"playlist"`
		Songs    []*models.Song   `json:"songs"`
	}{export.Playlist, songs}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without songs)
func ToMetadataJSON(playlist *models.Playlist) ([]byte, error) {
	summary := struct {
		models.PlaylistSummary
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}{playlist.Summary(), playlist.Description(), playlist.CreatedAt(), playlist.UpdatedAt()}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_songs.csv and {base}_metadata.json
func WriteCSVExport(export *Export, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.BaseName()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		SongsFile:    songsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a playlist to Markdown format in a dedicated directory.
//
// Directory name defaults to the playlist ID.
// The playlist cover image, when set, is downloaded next to the README; a failed download is reported on stderr.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *Export, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.BaseName()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL := export.Playlist.CoverImage(); imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}_songs.txt as the filename.
func WriteTextExport(export *Export, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_songs.txt", export.BaseName())
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport exports a playlist to JSON.
//
// Defaults to {playlist.ID}.json as the filename.
func WriteJSONExport(export *Export, path string) (string, error) {
	if path == "" {
		path = export.BaseName() + ".json"
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return path, nil
}

// Write exports to outputDir in format and returns the files created.
//
// Unknown formats fail with [shared.ErrInvalidArgument].
func Write(export *Export, format, outputDir string) ([]string, error) {
	base := filepath.Join(outputDir, export.BaseName())

	switch format {
	case FormatCSV:
		res, err := WriteCSVExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.SongsFile, res.MetadataFile}, nil
	case FormatMarkdown:
		res, err := WriteMarkdownExport(export, base)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil
	case FormatText:
		path, err := WriteTextExport(export, base+"_songs.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	case FormatJSON, "":
		path, err := WriteJSONExport(export, base+".json")
		if err != nil {
			return nil, fmt.Errorf("JSON export failed: %w", err)
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q (use json, csv, markdown or txt)", shared.ErrInvalidArgument, format)
	}
}

// ManifestEntry describes one playlist in a bulk export manifest.
type ManifestEntry struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Songs int      `json:"songs"`
	Files []string `json:"files"`
	Error string   `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	ExportedAt      time.Time       `json:"exported_at"`
	Format          string          `json:"format"`
	OutputDirectory string          `json:"output_directory"`
	Total           int             `json:"total"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	Playlists       []ManifestEntry `json:"playlists"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
