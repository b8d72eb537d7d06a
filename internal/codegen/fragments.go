package codegen

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"directoryEngine/internal/models"
)

// Fragment is a CSS/JS pair produced by one auxiliary generator. Either half
// may be empty.
type Fragment struct {
	CSS string
	JS  string
}

// GlobalCSS hides GHL store chrome that has no place on a directory page.
func GlobalCSS() string {
	return `/* Directory Engine: global */
.hl-product-detail-sku,
.hl-product-detail-share,
.hl-store-powered-by,
.hl-product-detail-breadcrumbs,
.hl-cart-icon-container {
  display: none !important;
}`
}

// PriceRemovalCSS hides every price GHL renders on listing and collection
// pages.
func PriceRemovalCSS() string {
	return `/* Directory Engine: price removal */
.hl-product-price,
.hl-product-detail-price,
.hl-product-card-price,
.hl-product-detail-compare-price,
.product-price-container {
  display: none !important;
}`
}

// DescriptionOptions configures the expanded description block.
type DescriptionOptions struct {
	Content  string
	Fade     bool
	Markdown bool
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts content to HTML, falling back to escaped text.
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "<p>" + html.EscapeString(content) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// ExpandedDescription wraps content in a div inserted below the product
// description, with an optional fade-in.
func ExpandedDescription(opts DescriptionOptions) Fragment {
	css := `/* Directory Engine: expanded description */
.de-expanded-description {
  margin-top: 20px;
  line-height: 1.6;
}`
	if opts.Fade {
		css += `
.de-expanded-description.de-fade {
  animation: deDescriptionFade 0.6s ease-in both;
}
@keyframes deDescriptionFade {
  from { opacity: 0; }
  to { opacity: 1; }
}`
	}

	content := strings.TrimSpace(opts.Content)
	if content == "" {
		return Fragment{CSS: css}
	}
	if opts.Markdown {
		content = renderMarkdown(content)
	}

	className := "de-expanded-description"
	if opts.Fade {
		className += " de-fade"
	}

	js := fmt.Sprintf(`/* Directory Engine: expanded description */
(function () {
  var CONTENT = "%s";

  function deDescribe() {
    if (document.querySelector(".de-expanded-description")) return;
    var wrap = document.createElement("div");
    wrap.className = "%s";
    wrap.innerHTML = CONTENT;
    var anchor = document.querySelector(".hl-product-detail-description");
    if (anchor && anchor.parentNode) {
      anchor.parentNode.insertBefore(wrap, anchor.nextSibling);
    } else {
      document.body.appendChild(wrap);
    }
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", deDescribe);
  } else {
    deDescribe();
  }
})();`, EscapeJSString(content), className)

	return Fragment{CSS: css, JS: js}
}

// MetadataField is one entry of the metadata bar. Icon is inline markup.
type MetadataField struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Icon         string `json:"icon"`
	DefaultValue string `json:"defaultValue"`
}

// MetadataBarOptions configures the metadata bar.
type MetadataBarOptions struct {
	Fields   []MetadataField
	Position string
	ShowMaps bool
}

// MetadataBar renders the ordered fields above or below the product
// description. Values come from window.deListingMetadata, then from
// elements carrying data-de-meta-<id>, then from each field's default.
func MetadataBar(opts MetadataBarOptions) Fragment {
	if len(opts.Fields) == 0 && !opts.ShowMaps {
		return Fragment{}
	}

	position := opts.Position
	if position != models.PositionTop {
		position = models.PositionBottom
	}
	margin := "margin-top: 20px;"
	if position == models.PositionTop {
		margin = "margin-bottom: 20px;"
	}

	css := fmt.Sprintf(`/* Directory Engine: metadata bar */
.de-metadata-bar {
  display: flex;
  flex-wrap: wrap;
  gap: 12px 24px;
  padding: 14px 18px;
  %s
  border: 1px solid #e5e7eb;
  border-radius: 8px;
  background: #f9fafb;
}
.de-metadata-item {
  display: flex;
  align-items: center;
  gap: 8px;
  font-size: 14px;
}
.de-metadata-icon {
  display: inline-flex;
  width: 18px;
  height: 18px;
}
.de-metadata-label {
  font-weight: 600;
}
.de-metadata-map {
  width: 100%%;
  height: 260px;
  border: none;
  border-radius: 8px;
  margin-top: 12px;
}`, margin)

	var fields strings.Builder
	for i, f := range opts.Fields {
		if i > 0 {
			fields.WriteString(",\n")
		}
		fmt.Fprintf(&fields, `    { id: "%s", label: "%s", icon: "%s", value: "%s" }`,
			EscapeJSString(f.ID), EscapeJSString(f.Label), EscapeJSString(f.Icon), EscapeJSString(f.DefaultValue))
	}

	js := fmt.Sprintf(`/* Directory Engine: metadata bar */
(function () {
  var FIELDS = [
%s
  ];
  var POSITION = "%s";
  var SHOW_MAPS = %t;

  function deText(s) {
    var d = document.createElement("div");
    d.textContent = s;
    return d.innerHTML;
  }

  function deValue(field) {
    var data = window.deListingMetadata || {};
    if (data[field.id]) return String(data[field.id]);
    var el = document.querySelector("[data-de-meta-" + field.id + "]");
    if (el) return el.getAttribute("data-de-meta-" + field.id) || el.textContent;
    return field.value;
  }

  function deMetadata() {
    if (document.querySelector(".de-metadata-bar")) return;
    var bar = document.createElement("div");
    bar.className = "de-metadata-bar de-position-" + POSITION;
    var address = "";

    FIELDS.forEach(function (field) {
      var value = deValue(field);
      if (!value) return;
      if (field.id === "address") address = value;
      var item = document.createElement("div");
      item.className = "de-metadata-item";
      item.innerHTML = '<span class="de-metadata-icon">' + field.icon + '</span>' +
        '<span class="de-metadata-label">' + deText(field.label) + ':</span> ' +
        '<span class="de-metadata-value">' + deText(value) + '</span>';
      bar.appendChild(item);
    });

    if (SHOW_MAPS && address) {
      var map = document.createElement("iframe");
      map.className = "de-metadata-map";
      map.loading = "lazy";
      map.src = "https://maps.google.com/maps?q=" + encodeURIComponent(address) + "&output=embed";
      bar.appendChild(map);
    }
    if (!bar.children.length) return;

    var anchor = document.querySelector(".hl-product-detail-description");
    if (anchor && anchor.parentNode) {
      if (POSITION === "top") {
        anchor.parentNode.insertBefore(bar, anchor);
      } else {
        anchor.parentNode.insertBefore(bar, anchor.nextSibling);
      }
    } else {
      document.body.appendChild(bar);
    }
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", deMetadata);
  } else {
    deMetadata();
  }
})();`, fields.String(), position, opts.ShowMaps)

	return Fragment{CSS: css, JS: js}
}
