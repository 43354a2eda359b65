// 指示: miu200521358
package io_mesh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWriteFile は一時ファイルへ書き込んだ後にリネームで確定する。
// 失敗時は部分ファイルを残さない。
func AtomicWriteFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("一時ファイルの作成に失敗しました: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("一時ファイルのクローズに失敗しました: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("出力ファイルの確定に失敗しました: %w", err)
	}
	return nil
}
