package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shorter/internal/service"
)

const qrCodeSize = 256

type QRCodeController struct {
	urlService service.URLService
	baseURL    string
	logger     *slog.Logger
}

func NewQRCodeController(urlService service.URLService, baseURL string, logger *slog.Logger) *QRCodeController {
	return &QRCodeController{
		urlService: urlService,
		baseURL:    baseURL,
		logger:     logger,
	}
}

// GenerateQRCode handles GET /:code/qrcode - a PNG pointing at the short link
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	link, err := qc.urlService.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, qc.logger, err, "")
		return
	}

	shortURL := qc.baseURL + "/" + link.ShortCode

	qrCode, err := qrcode.New(shortURL, qrcode.Medium)
	if err != nil {
		respondError(c, qc.logger, err, "")
		return
	}

	pngData, err := qrCode.PNG(qrCodeSize)
	if err != nil {
		respondError(c, qc.logger, err, "")
		return
	}

	c.Header("Content-Disposition", "inline; filename="+link.ShortCode+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
