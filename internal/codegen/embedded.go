package codegen

import (
	"fmt"
	"strings"

	"directoryEngine/internal/models"
)

// EmbeddedFormOptions configures a form rendered inline on the listing page.
type EmbeddedFormOptions struct {
	CustomFieldName string
	FormURL         string
	Radius          int
	Animation       string
	ExtraSpacing    bool
	// TargetSelector overrides where the form is inserted. The default is
	// after the product description.
	TargetSelector string
}

const defaultEmbedTarget = ".hl-product-detail-description"

// GenerateEmbeddedForm builds the CSS and JS that inject the form iframe
// directly into the page. Validity follows the popup rule.
func GenerateEmbeddedForm(opts EmbeddedFormOptions) models.GeneratedCode {
	if strings.TrimSpace(opts.FormURL) == "" {
		return models.GeneratedCode{}
	}
	form := resolveForm(opts.FormURL, opts.ExtraSpacing)

	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	animation := opts.Animation
	switch animation {
	case models.AnimationFade, models.AnimationSqueeze, models.AnimationNone:
	default:
		animation = models.AnimationFade
	}

	target := strings.TrimSpace(opts.TargetSelector)
	if target == "" {
		target = defaultEmbedTarget
	}

	css := fmt.Sprintf(`/* Directory Engine: embedded form */
.de-embedded-form {
  width: 100%%;
  max-width: %dpx;
  margin: 24px auto;
  border-radius: %dpx;
  box-shadow: 0 4px 24px rgba(0, 0, 0, 0.08);
  overflow: hidden;
  background: #ffffff;
}
.de-embedded-form iframe,
iframe[src*="%s"] {
  display: block;
  width: 100%%;
  height: %dpx;
  border: none;
}
.de-embedded-form.de-anim-fade {
  animation: deFadeIn 0.5s ease-out both;
}
.de-embedded-form.de-anim-squeeze {
  animation: deSqueeze 0.45s ease-out both;
  transform-origin: top center;
}
@keyframes deFadeIn {
  from { opacity: 0; transform: translateY(8px); }
  to { opacity: 1; transform: none; }
}
@keyframes deSqueeze {
  from { opacity: 0; transform: scaleY(0.6); }
  to { opacity: 1; transform: scaleY(1); }
}`,
		form.Width, radius, EscapeCSSString(form.Src), form.Height)

	js := fmt.Sprintf(`/* Directory Engine: embedded form */
(function () {
  var FORM_URL = "%s";
  var FIELD_NAME = "%s";
  var TARGET = "%s";
  var ANIMATION = "%s";

%s
  function deListingId() {
    var parts = window.location.pathname.split("/").filter(Boolean);
    return parts.length ? decodeURIComponent(parts[parts.length - 1]) : "";
  }

  function deEmbed() {
    if (document.querySelector(".de-embedded-form")) return;
    var id = deListingId();
    var src = FORM_URL;
    if (FIELD_NAME && id) {
      src += (src.indexOf("?") === -1 ? "?" : "&") + encodeURIComponent(FIELD_NAME) + "=" + encodeURIComponent(id);
    }

    var container = document.createElement("div");
    container.className = "de-embedded-form";
    if (ANIMATION !== "none") container.className += " de-anim-" + ANIMATION;

    var frame = document.createElement("iframe");
    frame.src = src;
    container.appendChild(frame);


    var anchor = document.querySelector(TARGET);
    if (anchor && anchor.parentNode) {
      anchor.parentNode.insertBefore(container, anchor.nextSibling);
    } else {
      document.body.appendChild(container);
    }
    deSetHiddenField(FIELD_NAME, id);
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", deEmbed);
  } else {
    deEmbed();
  }
})();`,
		EscapeJSString(form.Src),
		EscapeJSString(opts.CustomFieldName),
		EscapeJSString(target),
		animation,
		hiddenFieldJS)

	return models.GeneratedCode{HeaderCode: css, FooterCode: js, IsValid: true}
}
