package utils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	FILE_EXT_SHP = ".shp"
	FILE_EXT_CPG = ".cpg"

	UTF8  = "UTF8"
	UTF_8 = "UTF-8"
)

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

func EnsureDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// 读取shp文件的cpg编码声明，判断属性文本是否为UTF-8
func ShpIsUtf8(shp string) bool {
	cpg := strings.TrimSuffix(shp, FILE_EXT_SHP) + FILE_EXT_CPG
	enc, err := os.ReadFile(cpg)
	if err != nil || len(enc) == 0 {
		return false
	}
	encStr := strings.ToUpper(strings.TrimSpace(string(enc)))
	return encStr == UTF_8 || encStr == UTF8
}
