package artwork

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/stoodlemayer/gameshelf/internal/plugin"
	"github.com/stoodlemayer/gameshelf/internal/server"
	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// maxUploadBytes bounds one classification request (all files combined).
const maxUploadBytes = 64 << 20

// Module hosts the classifier behind the HTTP API.
type Module struct {
	logger     *zap.Logger
	config     *viper.Viper
	classifier *Classifier
}

// New creates the artwork module.
func New() *Module {
	return &Module{}
}

func (m *Module) Name() string    { return "artwork" }
func (m *Module) Version() string { return "0.3.0" }

func (m *Module) Init(config *viper.Viper, logger *zap.Logger) error {
	m.config = config
	m.logger = logger
	m.classifier = NewClassifier(DefaultSlots())
	return nil
}

func (m *Module) Start(ctx context.Context) error { return nil }
func (m *Module) Stop() error                     { return nil }

func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/slots", Handler: m.handleSlots},
		{Method: "POST", Path: "/classify", Handler: m.handleClassify},
	}
}

// handleSlots returns the expected slot configuration so the host UI can
// render targets without hardcoding them.
func (m *Module) handleSlots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DefaultSlots())
}

// measureError reports a file that could not be decoded. The rest of the
// batch still classifies.
type measureError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type classifyResponse struct {
	Result
	Errors []measureError `json:"errors,omitempty"`
}

// handleClassify measures each uploaded file, classifies the batch, and
// partitions the assignments into auto/conflict/manual buckets.
func (m *Module) handleClassify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		server.BadRequest(w, "invalid multipart body", r.URL.Path)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		server.BadRequest(w, "no files in field \"images\"", r.URL.Path)
		return
	}

	var (
		images []models.UploadedImage
		errs   []measureError
	)
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			errs = append(errs, measureError{Name: fh.Filename, Error: err.Error()})
			measureFailures.Inc()
			continue
		}
		img, err := Measure(fh.Filename, f)
		f.Close()
		if err != nil {
			errs = append(errs, measureError{Name: fh.Filename, Error: err.Error()})
			measureFailures.Inc()
			continue
		}
		images = append(images, img)
	}

	res := DetectConflicts(m.classifier.Classify(images))

	classifyOutcomes.WithLabelValues("auto").Add(float64(len(res.Auto)))
	classifyOutcomes.WithLabelValues("manual").Add(float64(len(res.Manual)))
	for _, claimants := range res.Conflicts {
		classifyOutcomes.WithLabelValues("conflict").Add(float64(len(claimants)))
	}

	m.logger.Debug("classified upload batch",
		zap.Int("files", len(files)),
		zap.Int("measured", len(images)),
		zap.Int("auto", len(res.Auto)),
		zap.Int("conflict_slots", len(res.Conflicts)),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(classifyResponse{Result: res, Errors: errs})
}
