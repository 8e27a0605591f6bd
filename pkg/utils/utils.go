package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/kchat-ai/kchat/pkg/errors"
	"github.com/kchat-ai/kchat/pkg/i18n"
)

const randomStrSource = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func RandomStr(l int) string {
	b := make([]byte, l)
	for i := range b {
		b[i] = randomStrSource[rand.Intn(len(randomStrSource))]
	}
	return string(b)
}

// GenRandomID generates entity ids. 32 chars keeps ids sortable-free and
// collision-safe enough for this deployment scale.
func GenRandomID() string {
	return RandomStr(32)
}

func Random(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

func MD5(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// GenUserPassword derives the stored password hash from the user's salt.
func GenUserPassword(salt, pwd string) string {
	return MD5(fmt.Sprintf("%s:%s", salt, MD5(pwd)))
}

func BindArgsWithGin(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindWith(req, binding.Default(c.Request.Method, c.ContentType())); err != nil {
		return errors.New("utils.BindArgsWithGin", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	return nil
}

type Language struct {
	Tag    string
	Weight float64
}

// ParseAcceptLanguage parses an Accept-Language header into ordered tags.
// Weights are ignored; header order wins, which is good enough here.
func ParseAcceptLanguage(header string) []Language {
	var result []Language
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		result = append(result, Language{Tag: tag})
	}
	return result
}
