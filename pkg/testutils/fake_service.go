package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Upload records one multipart upload received by the fake service
type Upload struct {
	Path        string
	FileName    string
	ContentType string
	Data        []byte
}

// FakeService is an in-process stand-in for the inference service. By
// default /predict answers {"predicted_class":"cat","confidence":0.9234}
// and /denoise answers a small PNG.
type FakeService struct {
	Server *httptest.Server

	mu       sync.Mutex
	uploads  []Upload
	classify gin.HandlerFunc
	denoise  gin.HandlerFunc
	hold     chan struct{}
	entered  chan string
}

// NewFakeService starts a fake service that is closed with the test
func NewFakeService(t *testing.T) *FakeService {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeService{
		classify: func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"predicted_class": "cat", "confidence": 0.9234})
		},
		denoise: func(c *gin.Context) {
			c.Data(http.StatusOK, "image/png", PNG(2, 2))
		},
		entered: make(chan string, 16),
	}

	router := gin.New()
	router.POST("/predict", f.handle(func() gin.HandlerFunc { return f.classify }))
	router.POST("/denoise", f.handle(func() gin.HandlerFunc { return f.denoise }))

	f.Server = httptest.NewServer(router)
	t.Cleanup(func() {
		f.Release()
		f.Server.Close()
	})
	return f
}

func (f *FakeService) handle(current func() gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		src, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
			return
		}
		data, _ := io.ReadAll(src)
		src.Close()

		f.mu.Lock()
		f.uploads = append(f.uploads, Upload{
			Path:        c.Request.URL.Path,
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
		hold := f.hold
		handler := current()
		f.mu.Unlock()

		select {
		case f.entered <- c.Request.URL.Path:
		default:
		}
		if hold != nil {
			<-hold
		}
		handler(c)
	}
}

// URL returns the base URL of the fake service
func (f *FakeService) URL() string {
	return f.Server.URL
}

// OnClassify replaces the /predict handler
func (f *FakeService) OnClassify(h gin.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classify = h
}

// OnDenoise replaces the /denoise handler
func (f *FakeService) OnDenoise(h gin.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.denoise = h
}

// Hold makes subsequent requests wait until Release is called
func (f *FakeService) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold == nil {
		f.hold = make(chan struct{})
	}
}

// Release lets held requests complete
func (f *FakeService) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hold != nil {
		close(f.hold)
		f.hold = nil
	}
}

// Entered delivers the path of every request as it reaches the service
func (f *FakeService) Entered() <-chan string {
	return f.entered
}

// Uploads returns the uploads received so far
func (f *FakeService) Uploads() []Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Upload(nil), f.uploads...)
}

// Calls returns how many requests reached path
func (f *FakeService) Calls(path string) int {
	n := 0
	for _, u := range f.Uploads() {
		if u.Path == path {
			n++
		}
	}
	return n
}

// Status returns a handler answering code with the service's error shape
func Status(code int, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(code, gin.H{"error": msg})
	}
}
