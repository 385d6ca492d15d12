package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// PrintQR writes url as a terminal QR code, so the preview can be opened
// from a phone on the same network.
func PrintQR(w io.Writer, url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code for %s: %w", url, err)
	}
	_, err = io.WriteString(w, q.ToSmallString(false))
	return err
}

// qrPNG serves a QR code linking to the current frame of this server.
func (s *Server) qrPNG(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/api/session/frame.png", scheme, c.Request.Host)

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
