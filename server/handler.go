package server

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"

	"github.com/chaos-io/gifbg/bgremove"
)

type removeResp struct {
	ID     string `json:"id"`
	Frames int    `json:"frames"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

type errorResp struct {
	Error string `json:"error"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// remove 上传 GIF（multipart 字段 image），可选表单字段 tolerance
//
//	请求体在解析前就按 MaxUpload 截断，超限返回 413
func (s *Server) remove(c *gin.Context) {
	if c.Request.ContentLength > s.cfg.MaxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, errorResp{Error: "file too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUpload)

	fh, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResp{Error: "file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, errorResp{Error: "missing multipart file field \"image\""})
		return
	}
	if fh.Size > s.cfg.MaxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, errorResp{Error: "file too large"})
		return
	}

	tolerance := s.cfg.Tolerance
	if v := c.PostForm("tolerance"); v != "" {
		t, err := strconv.Atoi(v)
		if err != nil || t < 0 {
			c.JSON(http.StatusBadRequest, errorResp{Error: bgremove.ErrInvalidTolerance.Error()})
			return
		}
		tolerance = t
	}

	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	defer func() {
		_ = file.Close()
	}()

	p := bgremove.NewProcessor(tolerance)
	p.Workers = s.cfg.Workers
	p.MaxSize = s.cfg.MaxSize

	var buf bytes.Buffer
	report, err := p.ProcessStream(c.Request.Context(), file, &buf)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResp{Error: err.Error()})
		return
	}

	id := ksuid.New().String()
	if err := os.WriteFile(s.resultPath(id), buf.Bytes(), 0o644); err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: "store result"})
		return
	}

	c.JSON(http.StatusCreated, removeResp{
		ID:     id,
		Frames: report.Frames,
		Width:  report.Width,
		Height: report.Height,
		URL:    "/v1/results/" + id,
	})
}

func (s *Server) result(c *gin.Context) {
	id, err := ksuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResp{Error: "invalid result id"})
		return
	}

	path := s.resultPath(id.String())
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.JSON(http.StatusNotFound, errorResp{Error: "result not found"})
		return
	}

	c.Header("Content-Type", "image/gif")
	c.File(path)
}

func (s *Server) resultPath(id string) string {
	return filepath.Join(s.cfg.WorkDir, id+resultExt)
}
