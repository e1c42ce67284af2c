// Package validation 为 gin 的 binding 引擎注册模块期等自定义校验规则，
// 并把 validator 的字段错误翻译成可读的 details 文本。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"skoleadmin/backend/pkg/modulperiode"
)

// 自定义校验 tag
const modulperiodeTag = "modulperiode"

var (
	once       sync.Once
	registered error
	translator ut.Translator
)

// Register 向 gin 默认的 binding 引擎注册自定义校验，可重复调用
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registered = errors.New("binding 引擎不是 validator/v10")
			return
		}
		translator, registered = setup(v)
	})
	return registered
}

func setup(v *validator.Validate) (ut.Translator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("注册默认翻译失败: %w", err)
	}

	// 错误信息中使用 json/form 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := v.RegisterValidation(modulperiodeTag, validateModulperiode); err != nil {
		return nil, fmt.Errorf("注册 %s 校验失败: %w", modulperiodeTag, err)
	}
	err := v.RegisterTranslation(modulperiodeTag, trans,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fmt.Sprintf("%s must be a modulperiode like 26-1-M1", fe.Field())
		},
	)
	if err != nil {
		return nil, fmt.Errorf("注册 %s 翻译失败: %w", modulperiodeTag, err)
	}
	return trans, nil
}

// validateModulperiode 只校验格式与取值范围，是否已结束由业务层判断
func validateModulperiode(fl validator.FieldLevel) bool {
	id, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, _, err := modulperiode.DateRange(id)
	return err == nil
}

// Describe 把绑定错误转换为 details 文本；非校验错误（如 JSON 语法错误）原样返回
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if translator == nil || !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return strings.Join(msgs, "; ")
}
