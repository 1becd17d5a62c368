package chtljs

// RuntimePrologue is the fixed JS runtime shim every lowered CHTL-JS
// construct calls into: CHTLJS_SELECT resolves an enhanced selector to
// a DOM element, CHTLJS_LISTEN/CHTLJS_ANIMATE are chained onto that
// element the same way a jQuery-style call would be, and
// CHTLJS_STATE_DISPATCH is the shared sink every generated state
// setter reports through, mirroring a named, arity-fixed builtin table
// rather than free-form runtime reflection. The generator emits this
// once per compilation unit, the first time any construct lowers to
// non-empty output.
const RuntimePrologue = `function CHTLJS_SELECT(selector) {
  return document.querySelector(selector);
}
if (typeof Element !== "undefined") {
  Element.prototype.chtljsQuery = function (selector) {
    return this.querySelector(selector);
  };
  Element.prototype.CHTLJS_LISTEN = function (handlers) {
    var el = this;
    Object.keys(handlers).forEach(function (event) {
      el.addEventListener(event, handlers[event]);
    });
    return el;
  };
  Element.prototype.CHTLJS_ANIMATE = function (props) {
    Object.assign(this.style, props);
    return this;
  };
}
var CHTLJS_STATE = {};
function CHTLJS_STATE_DISPATCH(name, state) {
  CHTLJS_STATE[name] = state;
}
`
