package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/apierror"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal validates as a float64 so min=0, gt=0 and required work on
	// it. That is a coarse filter only; the services check decimal places and
	// bounds exactly before anything is stored.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report json / form names in field errors.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// bindAndValidate binds the JSON body and runs validator tags. On failure it
// writes the 422 response and returns false.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Invalid JSON body: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Invalid query parameters: "+err.Error()))
		return false
	}
	return runValidation(c, req)
}

func runValidation(c *gin.Context, req interface{}) bool {
	err := validate.Struct(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// fieldPath drops the struct name prefix: "PostSaleRequest.lines[0].quantity" -> "lines[0].quantity".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"id": "uuid"}))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors to HTTP responses. Unknown errors become a
// generic 500 and are attached to the context for the ErrorHandler to log.
func respondError(c *gin.Context, err error) {
	var (
		verr  *service.ValidationError
		stock *service.InsufficientStockError
		nf    *service.NotFoundError
		authn *service.AuthenticationError
		authz *service.AuthorizationError
	)
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			c.JSON(http.StatusUnprocessableEntity, &apierror.ValidationError{Detail: verr.Msg, Fields: verr.Fields})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New(verr.Msg))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.NewStock(stock.Error(), stock.ItemID.String(), stock.ItemName, stock.Requested, stock.Available))
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, apierror.New(nf.Error()))
	case errors.As(err, &authn):
		c.JSON(http.StatusUnauthorized, apierror.New(authn.Msg))
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, apierror.New(authz.Msg))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
