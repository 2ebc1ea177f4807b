package upload

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/indieinfra/safari-admin/server/handler/common"
	"github.com/indieinfra/safari-admin/server/resp"
	"github.com/indieinfra/safari-admin/server/state"
	"github.com/indieinfra/safari-admin/server/util"
	"github.com/indieinfra/safari-admin/storage/media"
	storageutil "github.com/indieinfra/safari-admin/storage/util"
)

const defaultImageIndex = 1

var (
	newID = uuid.NewString
	now   = time.Now
)

// Response describes the asset created by an upload.
type Response struct {
	Message        string    `json:"message"`
	ID             string    `json:"id"`
	Filename       string    `json:"filename"`
	OriginalName   string    `json:"originalName"`
	URL            string    `json:"url"`
	FullPath       string    `json:"fullPath"`
	Size           int64     `json:"size"`
	ExperienceType string    `json:"experienceType"`
	ImageIndex     int       `json:"imageIndex"`
	Storage        string    `json:"storage"`
	CloudinaryID   string    `json:"cloudinaryId,omitempty"`
	UploadedAt     time.Time `json:"uploadedAt"`
}

// HandleUpload accepts a multipart form with one image in "file", renames it
// to its slot filename and hands it to the active store.
func HandleUpload(st *state.AdminState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rl := util.LoggerFor(r, st.Log)

		maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
		maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
		form, file, ok := util.ParseSingleFile(w, r, maxMemory, maxSize, "file")
		if !ok {
			return
		}
		defer form.Close()

		contentType, ok := util.ImageContentType(file.Header)
		if !ok {
			resp.WriteBadRequest(w, fmt.Sprintf("%s is not an image file", file.Header.Filename))
			return
		}

		category := strings.TrimSpace(form.Value("experienceType"))
		mapping, err := st.Slots.Lookup(category)
		if err != nil {
			resp.WriteBadRequest(w, "Invalid experience type. Must be one of: "+strings.Join(st.Slots.Categories(), ", "))
			return
		}

		index, err := parseImageIndex(form.Value("imageIndex"))
		if err != nil {
			resp.WriteBadRequest(w, err.Error())
			return
		}

		if st.Cfg.Uploads.StrictSlots && !mapping.ValidSlot(index) {
			resp.WriteBadRequest(w, fmt.Sprintf("Invalid image index %d for %s: valid slots are %v", index, category, mapping.Slots))
			return
		}

		filename := mapping.Filename(index)
		asset, err := st.Store.Upload(r.Context(), media.Object{
			Filename:    filename,
			Category:    category,
			ContentType: contentType,
			Size:        file.Header.Size,
			Body:        file.File,
		})
		if err != nil {
			common.LogAndWriteError(w, r, "upload", err)
			return
		}

		rl.Infof("uploaded %q as %s to %s", file.Header.Filename, filename, st.Store.Name())

		resp.WriteOK(w, Response{
			Message:        "File uploaded successfully",
			ID:             newID(),
			Filename:       asset.Filename,
			OriginalName:   file.Header.Filename,
			URL:            asset.URL,
			FullPath:       storageutil.JoinURL(st.Cfg.Server.PublicUrl, asset.URL),
			Size:           asset.Size,
			ExperienceType: category,
			ImageIndex:     index,
			Storage:        st.Store.Name(),
			CloudinaryID:   asset.RemoteID,
			UploadedAt:     now().UTC(),
		})
	}
}

// parseImageIndex defaults a missing index to the first slot and rejects
// anything that is not a positive integer.
func parseImageIndex(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultImageIndex, nil
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid image index %q: must be a positive integer", raw)
	}
	if index < 1 {
		return 0, fmt.Errorf("invalid image index %d: must be a positive integer", index)
	}

	return index, nil
}
