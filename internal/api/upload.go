package api

import (
	"fmt"           // Message formatting
	"net/http"      // HTTP status codes
	"os"            // File system access
	"path/filepath" // Path manipulation
	"sort"          // Listing order
	"strings"       // String manipulation
	"time"          // File timestamps

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Unique filenames
)

// maxUploadSize is the per-file upload limit (5MB)
const maxUploadSize = 5 << 20

// maxUploadCount bounds a single multi-file upload
const maxUploadCount = 5

// allowedImageExts is the allow-list of image file extensions
var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadedFile describes a stored upload in API responses
type UploadedFile struct {
	Filename     string `json:"filename"`     // Stored filename
	OriginalName string `json:"originalName"` // Client-side filename
	Size         int64  `json:"size"`         // Size in bytes
	URL          string `json:"url"`          // Relative URL
	FullURL      string `json:"fullUrl"`      // Absolute URL
}

// fileURL builds the relative and absolute URLs for a stored filename
func fileURL(c *gin.Context, filename string) (string, string) {
	url := "/uploads/" + filename // Served statically by the server
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https" // Request arrived over TLS
	}
	return url, fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, url)
}

// checkImageFile validates an uploaded file's size and type.
// Returns a rejection message, or "" when the file is acceptable.
func checkImageFile(size int64, filename, contentType string) string {
	if size > maxUploadSize {
		return "File too large. Maximum size is 5MB."
	}
	ext := strings.ToLower(filepath.Ext(filename)) // Extension check
	if !allowedImageExts[ext] || !strings.HasPrefix(contentType, "image/") {
		return "Only image files are allowed (jpeg, jpg, png, gif, webp)"
	}
	return "" // Acceptable
}

// UploadImageHandler stores a single uploaded image (admin only)
func UploadImageHandler(uploadDir string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image") // The single uploaded file
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		// Validate size and type before touching the disk
		if msg := checkImageFile(file.Size, file.Filename, file.Header.Get("Content-Type")); msg != "" {
			errorResponse(c, http.StatusBadRequest, msg)
			return
		}
		// Create the upload directory if it doesn't exist
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			internalResponse(c, isProd, "Error saving file", err)
			return
		}
		// Generate a unique filename, keeping the original extension
		filename := "image-" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
			internalResponse(c, isProd, "Error saving file", err)
			return
		}
		url, fullURL := fileURL(c, filename) // Retrievable URLs
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Image uploaded successfully",
			"data": UploadedFile{
				Filename:     filename,      // Stored filename
				OriginalName: file.Filename, // Client-side filename
				Size:         file.Size,     // Size in bytes
				URL:          url,           // Relative URL
				FullURL:      fullURL,       // Absolute URL
			},
		})
	}
}

// UploadMultipleHandler stores up to five uploaded images (admin only)
func UploadMultipleHandler(uploadDir string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm() // The whole multipart form
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "No files uploaded")
			return
		}
		files := form.File["images"] // Uploaded files under the images field
		if len(files) == 0 {
			errorResponse(c, http.StatusBadRequest, "No files uploaded")
			return
		}
		if len(files) > maxUploadCount {
			errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Too many files. Maximum is %d files.", maxUploadCount))
			return
		}
		// Validate every file before storing any of them
		for _, file := range files {
			if file.Size > maxUploadSize {
				errorResponse(c, http.StatusBadRequest, "One or more files are too large. Maximum size is 5MB per file.")
				return
			}
			if msg := checkImageFile(file.Size, file.Filename, file.Header.Get("Content-Type")); msg != "" {
				errorResponse(c, http.StatusBadRequest, msg)
				return
			}
		}
		// Create the upload directory if it doesn't exist
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			internalResponse(c, isProd, "Error saving files", err)
			return
		}
		stored := make([]UploadedFile, 0, len(files)) // Per-file response info
		for _, file := range files {
			filename := "image-" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
			if err := c.SaveUploadedFile(file, filepath.Join(uploadDir, filename)); err != nil {
				internalResponse(c, isProd, "Error saving files", err)
				return
			}
			url, fullURL := fileURL(c, filename)
			stored = append(stored, UploadedFile{
				Filename:     filename,      // Stored filename
				OriginalName: file.Filename, // Client-side filename
				Size:         file.Size,     // Size in bytes
				URL:          url,           // Relative URL
				FullURL:      fullURL,       // Absolute URL
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("%d image(s) uploaded successfully", len(stored)),
			"data":    stored,
		})
	}
}

// DeleteUploadHandler removes a stored image by filename (admin only)
func DeleteUploadHandler(uploadDir string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename") // Filename path parameter
		// Reject anything that could escape the upload directory
		if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
			errorResponse(c, http.StatusBadRequest, "Invalid filename")
			return
		}
		path := filepath.Join(uploadDir, filename) // Full path of the stored file
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				errorResponse(c, http.StatusNotFound, "File not found")
				return
			}
			internalResponse(c, isProd, "Error deleting file", err)
			return
		}
		// Delete the file
		if err := os.Remove(path); err != nil {
			internalResponse(c, isProd, "Error deleting file", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted successfully"})
	}
}

// UploadInfo describes a stored image in the listing response
type UploadInfo struct {
	Filename   string    `json:"filename"`   // Stored filename
	Size       int64     `json:"size"`       // Size in bytes
	UploadDate time.Time `json:"uploadDate"` // Stored-at timestamp
	URL        string    `json:"url"`        // Relative URL
	FullURL    string    `json:"fullUrl"`    // Absolute URL
}

// ListUploadsHandler lists stored images, newest first (admin only)
func ListUploadsHandler(uploadDir string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := os.ReadDir(uploadDir) // All files in the upload directory
		if err != nil {
			if os.IsNotExist(err) {
				// Nothing uploaded yet
				c.JSON(http.StatusOK, gin.H{"success": true, "data": []UploadInfo{}})
				return
			}
			internalResponse(c, isProd, "Error listing files", err)
			return
		}
		infos := make([]UploadInfo, 0, len(entries)) // Image files with metadata
		for _, entry := range entries {
			if entry.IsDir() || !allowedImageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
				continue // Skip directories and non-image files
			}
			stat, err := entry.Info() // Size and modification time
			if err != nil {
				continue // File disappeared between ReadDir and Info
			}
			url, fullURL := fileURL(c, entry.Name())
			infos = append(infos, UploadInfo{
				Filename:   entry.Name(),   // Stored filename
				Size:       stat.Size(),    // Size in bytes
				UploadDate: stat.ModTime(), // Stored-at timestamp
				URL:        url,            // Relative URL
				FullURL:    fullURL,        // Absolute URL
			})
		}
		// Newest uploads first
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].UploadDate.After(infos[j].UploadDate)
		})
		c.JSON(http.StatusOK, gin.H{"success": true, "data": infos})
	}
}
