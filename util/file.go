package util

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	nhttp "github.com/chaos-io/gifbg/util/http"
)

// ErrNotExist 本地输入文件不存在
var ErrNotExist = errors.New("file does not exist")

// IsURL 判断输入是否为 http(s) 地址
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Exists 本地文件是否存在；URL 总是返回 true
func Exists(path string) bool {
	if IsURL(path) {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

// ReadSource 读取本地文件或下载远程文件的全部内容
func ReadSource(ctx context.Context, cli nhttp.IClient, path string) ([]byte, error) {
	if IsURL(path) {
		return Download(ctx, cli, path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	return data, err
}

// Download 下载远程文件
func Download(ctx context.Context, cli nhttp.IClient, url string) ([]byte, error) {
	if cli == nil {
		cli = nhttp.NewHTTPClient()
	}

	var data []byte
	err := cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: url,
		Method:     "GET",
		Response:   &data,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return data, nil
}
