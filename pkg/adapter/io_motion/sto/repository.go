// 指示: miu200521358
// Package sto はOpenSim STO/MOT形式のモーション時系列読み込みアダプタを提供する。
package sto

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
)

const timeColumnName = "time"

// Repository はSTO/MOT入力の読み込み契約を表す。
type Repository struct{}

// NewRepository はRepositoryを生成する。
func NewRepository() *Repository {
	return &Repository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *Repository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sto", ".mot":
		return true
	}
	return false
}

// Open は遅延読み出しのフレーム供給元を開く。
// ヘッダと列定義のみ先読みし、データ行は Next 呼び出しごとに読む。
func (r *Repository) Open(path string) (motion.FrameSource, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewMotionFormatError(
			fmt.Sprintf("未対応のモーション形式です: %s", filepath.Ext(path)), nil).WithPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, merrors.NewMotionFormatError("モーションファイルを開けませんでした", err).WithPath(path)
	}
	src := &frameSource{file: f, path: path}
	if err := src.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

// Load は系列全体を実体化して読み込む。
func (r *Repository) Load(path string) (*motion.Sequence, error) {
	src, err := r.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return motion.Materialize(src)
}

// frameSource はSTOデータ行の遅延読み出し状態を表す。
type frameSource struct {
	file      *os.File
	path      string
	reader    *bufio.Reader
	columns   []string
	inDegrees bool
	dataStart int64
	nextIndex int
	prevTime  float64
}

// Columns は座標識別子の列一覧を返す(time 列は含まない)。
func (s *frameSource) Columns() []string {
	return s.columns
}

// InDegrees は回転座標が度単位で記録されているか返す。
func (s *frameSource) InDegrees() bool {
	return s.inDegrees
}

// readHeader は endheader までのキー値ヘッダと列定義行を読み取る。
func (s *frameSource) readHeader() error {
	s.reader = bufio.NewReader(s.file)
	offset := int64(0)
	sawEnd := false
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil && line == "" {
			return merrors.NewMotionFormatError("endheader が見つかりません", nil).WithPath(s.path)
		}
		offset += int64(len(line))
		trimmed := strings.TrimSpace(line)
		if trimmed == "endheader" {
			sawEnd = true
			break
		}
		if key, value, found := strings.Cut(trimmed, "="); found {
			if strings.EqualFold(strings.TrimSpace(key), "inDegrees") {
				s.inDegrees = strings.EqualFold(strings.TrimSpace(value), "yes")
			}
		}
		if err == io.EOF {
			break
		}
	}
	if !sawEnd {
		return merrors.NewMotionFormatError("endheader が見つかりません", nil).WithPath(s.path)
	}

	// 列定義行。先頭列は time でなければならない。
	line, err := s.reader.ReadString('\n')
	if err != nil && line == "" {
		return merrors.NewMotionFormatError("列定義行がありません", nil).WithPath(s.path)
	}
	offset += int64(len(line))
	labels := strings.Fields(line)
	if len(labels) < 2 || labels[0] != timeColumnName {
		return merrors.NewMotionFormatError(
			fmt.Sprintf("列定義行の先頭は %s でなければなりません", timeColumnName), nil).WithPath(s.path)
	}
	s.columns = labels[1:]
	s.dataStart = offset
	return nil
}

// Next は次のフレームを返す。終端では io.EOF を返す。
// 行幅不一致・時刻の単調性違反は読み出し時点で検出する。
func (s *frameSource) Next() (*motion.Frame, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if line == "" && err != nil {
			return nil, io.EOF
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if err != nil {
				return nil, io.EOF
			}
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) != len(s.columns)+1 {
			return nil, merrors.NewMotionFormatError(
				fmt.Sprintf("フレーム %d の列数が一致しません: got=%d want=%d",
					s.nextIndex, len(fields), len(s.columns)+1), nil).WithPath(s.path)
		}
		values := make([]float64, len(fields))
		for i, field := range fields {
			value, perr := strconv.ParseFloat(field, 64)
			if perr != nil {
				return nil, merrors.NewMotionFormatError(
					fmt.Sprintf("フレーム %d の数値を解釈できません: %s", s.nextIndex, field), perr).WithPath(s.path)
			}
			values[i] = value
		}
		if s.nextIndex > 0 && values[0] <= s.prevTime {
			return nil, merrors.NewMotionFormatError(
				fmt.Sprintf("タイムスタンプが単調増加していません: frame=%d time=%g prev=%g",
					s.nextIndex, values[0], s.prevTime), nil).WithPath(s.path)
		}

		frame := &motion.Frame{
			Index:  s.nextIndex,
			Time:   values[0],
			Values: make(map[string]float64, len(s.columns)),
		}
		for i, name := range s.columns {
			frame.Values[name] = values[i+1]
		}
		s.prevTime = values[0]
		s.nextIndex++
		return frame, nil
	}
}

// Reset は読み出し位置をデータ先頭へ戻す。
func (s *frameSource) Reset() error {
	if _, err := s.file.Seek(s.dataStart, io.SeekStart); err != nil {
		return merrors.NewMotionFormatError("読み出し位置の巻き戻しに失敗しました", err).WithPath(s.path)
	}
	s.reader = bufio.NewReader(s.file)
	s.nextIndex = 0
	s.prevTime = 0
	return nil
}

// Close は下層ファイルを閉じる。
func (s *frameSource) Close() error {
	return s.file.Close()
}
