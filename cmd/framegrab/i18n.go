// Package main provides localization for the framegrab CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Pull decoded NV12 frames from video files": "動画ファイルからデコード済みNV12フレームを取り出す",

		// Global flags
		"Path to a yaml configuration file":              "YAML設定ファイルのパス",
		"Decode backend (mp4, sim)":                      "デコードバックエンド（mp4, sim）",
		"Log level (debug, info, warn, error, quiet)":    "ログレベル（debug, info, warn, error, quiet）",
		"Prefer the GPU adapter with this PCI vendor ID": "このPCIベンダーIDのGPUアダプタを優先",

		// Probe command
		"Report duration, frame rate, and total frame count": "再生時間・フレームレート・総フレーム数を表示",
		"frames:     unknown (metadata unavailable)":         "フレーム数: 不明（メタデータなし）",

		// Dump command
		"Decode frames and write them as PNG files": "フレームをデコードしてPNGファイルとして保存",
		"Output directory for PNG frames":           "PNGフレームの出力ディレクトリ",
		"Start decoding at this frame index":        "このフレーム番号からデコードを開始",
		"Stop after this many frames (0 = all)":     "このフレーム数で停止（0 = すべて）",
		"Wrote %d frames to %s":                     "%d フレームを %s に書き出しました",

		// Sheet command
		"Render decoded frames into a contact sheet": "デコード済みフレームからコンタクトシートを作成",
		"Output PNG path":                            "出力PNGパス",
		"Number of columns":                          "カラム数",
		"Sample every Nth frame":                     "Nフレームごとにサンプリング",
		"Maximum number of cells":                    "セルの最大数",
		"Wrote contact sheet with %d cells to %s":    "%d セルのコンタクトシートを %s に書き出しました",
	})
}
