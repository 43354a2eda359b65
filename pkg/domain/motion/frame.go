// 指示: miu200521358
// Package motion はモーション時系列のドメイン型を提供する。
package motion

// Frame は1時刻分のサンプルを表す。
// 座標識別子から値への対応で、モデル座標の一部のみ参照してもよい。
type Frame struct {
	Index  int
	Time   float64
	Values map[string]float64
}

// Value は座標値を返す。未参照の場合は ok=false を返す。
func (f *Frame) Value(name string) (float64, bool) {
	v, ok := f.Values[name]
	return v, ok
}
