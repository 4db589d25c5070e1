package site

// readerTemplate is the Go html/template for each series reader page.
const readerTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body class="reader">
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <a href="{{.BasePath}}index.html" class="project-title">{{.SiteTitle}}</a>
      <input type="text" id="sidebar-filter" placeholder="Filter chapters or series..." autocomplete="off">
    </div>
    <div class="sidebar-lists">
      {{if .ChapterNav}}<h3>Chapters</h3>
      {{.ChapterNav}}{{end}}
      <h3>Series</h3>
      {{.SeriesNav}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <button class="sidebar-toggle" id="sidebar-toggle" aria-label="Toggle sidebar">
    <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
      <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
    </svg>
  </button>
  <header class="site-header autohide" id="site-header">
    <h1>{{.Title}}</h1>
    <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">&#9680;</button>
  </header>
  {{if .ChapterNav}}<nav class="chapter-bar autohide" id="chapter-bar">
    <span class="chapter-bar-label">Chapters:</span>
    {{.ChapterNav}}
  </nav>{{end}}
  <main class="content">
    {{if .Description}}<section class="description">{{.Description}}</section>{{end}}
    <div class="pages">
      {{- range .Pages}}
      <div class="page"{{if .AnchorID}} id="{{.AnchorID}}"{{end}} data-index="{{.Index}}" style="aspect-ratio: {{.Width}} / {{.Height}}">
        <img data-src="{{.Src}}" alt="{{.Alt}}" width="{{.Width}}" height="{{.Height}}" decoding="async">
      </div>
      {{- else}}
      <p class="empty">No pages found for this series.</p>
      {{- end}}
    </div>
  </main>
  <script type="application/json" id="reader-config">{{.Client}}</script>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// indexTemplate is the Go html/template for the library index page.
const indexTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body class="library">
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      <a href="{{.BasePath}}index.html" class="project-title">{{.SiteTitle}}</a>
      <input type="text" id="sidebar-filter" placeholder="Filter series..." autocomplete="off">
    </div>
    <div class="sidebar-lists">
      <h3>Series</h3>
      {{.SeriesNav}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <button class="sidebar-toggle" id="sidebar-toggle" aria-label="Toggle sidebar">
    <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
      <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
    </svg>
  </button>
  <header class="site-header autohide" id="site-header">
    <h1>{{.SiteTitle}}</h1>
    <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">&#9680;</button>
  </header>
  <main class="content">
    {{if .Series}}
    <p class="lead">Select a series from the sidebar or the list below to start reading.</p>
    <ul class="series-grid">
      {{- range .Series}}
      <li class="series-card">
        <a href="{{$.BasePath}}{{.Path}}">
          {{if .Cover}}<img src="{{$.BasePath}}{{.Cover}}" alt="{{.Title}}" loading="lazy">{{else}}<div class="cover-placeholder"></div>{{end}}
          <span class="series-title">{{.Title}}</span>
          <span class="series-meta">{{len .Chapters}} chapters · {{.Pages}} pages</span>
        </a>
      </li>
      {{- end}}
    </ul>
    {{else}}
    <p class="empty">The library is empty.</p>
    {{end}}
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the full CSS for the reader site. The header and chapter bar
// heights must add up to the configured sticky offsets.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #fafafa;
  --text: #212529;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --sidebar-width: 250px;
  --header-height: 112px;
  --chapter-bar-height: 50px;
  --page-max-width: 900px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-light: #1a1b2e;
  --shadow: 0 1px 3px rgba(0,0,0,0.3);
}

/* ============ Reset & Base ============ */
*, *::before, *::after {
  box-sizing: border-box;
  margin: 0;
  padding: 0;
}

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: var(--bg);
  color: var(--text);
  line-height: 1.5;
}

a { color: var(--accent); text-decoration: none; }

/* ============ Sidebar ============ */
.sidebar {
  position: fixed;
  top: 0;
  left: 0;
  width: 0;
  height: 100vh;
  overflow-x: hidden;
  overflow-y: auto;
  background: var(--bg-sidebar);
  box-shadow: none;
  transition: width 0.3s ease;
  z-index: 900;
}

.sidebar.open {
  width: var(--sidebar-width);
  box-shadow: 2px 0 5px rgba(0,0,0,0.2);
}

.sidebar-header {
  padding: 1rem;
  border-bottom: 1px solid var(--border);
}

.project-title {
  display: block;
  font-weight: 700;
  margin-bottom: 0.75rem;
  color: var(--text);
}

#sidebar-filter {
  width: 100%;
  padding: 8px;
  border: 1px solid var(--border);
  border-radius: 4px;
  background: var(--bg);
  color: var(--text);
}

.sidebar-lists { padding: 1rem; }

.sidebar-lists h3 {
  font-size: 0.8rem;
  text-transform: uppercase;
  color: var(--text-muted);
  margin: 0.5rem 0;
}

.nav-list { list-style: none; }

.sidebar .nav-list li a {
  display: block;
  padding: 5px 8px;
  margin-bottom: 4px;
  border: 1px solid var(--border);
  border-radius: 4px;
  color: var(--text);
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
  text-transform: capitalize;
}

.nav-list li.active a,
.nav-list li a.active {
  background: var(--accent-light);
  border-color: var(--accent);
}

.sidebar-overlay {
  display: none;
  position: fixed;
  inset: 0;
  background: rgba(0,0,0,0.3);
  z-index: 800;
}

.sidebar-overlay.visible { display: block; }

.sidebar-toggle {
  position: fixed;
  top: 12px;
  left: 12px;
  z-index: 1000;
  background: var(--bg);
  color: var(--text);
  border: 1px solid var(--border);
  border-radius: 4px;
  padding: 4px;
  cursor: pointer;
}

/* ============ Header & chapter bar ============ */
.site-header {
  position: sticky;
  top: 0;
  height: var(--header-height);
  display: flex;
  align-items: center;
  justify-content: center;
  background: var(--bg-secondary);
  border-bottom: 1px solid var(--border);
  text-transform: capitalize;
  z-index: 10;
  transition: opacity 0.5s ease-in-out, visibility 0.5s ease-in-out;
}

.theme-toggle {
  position: absolute;
  right: 1rem;
  background: none;
  border: none;
  color: var(--text);
  font-size: 1.25rem;
  cursor: pointer;
}

.chapter-bar {
  position: sticky;
  top: var(--header-height);
  height: var(--chapter-bar-height);
  display: flex;
  align-items: center;
  gap: 10px;
  padding: 0 10px;
  overflow-x: auto;
  white-space: nowrap;
  background: var(--bg-sidebar);
  border-bottom: 1px solid var(--border);
  z-index: 9;
  transition: opacity 0.5s ease-in-out, visibility 1s ease-in-out;
}

.chapter-bar-label { font-weight: 700; flex-shrink: 0; }

.chapter-bar .nav-list { display: flex; gap: 5px; }

.chapter-bar .nav-list a {
  padding: 3px 8px;
  border: 1px solid var(--border);
  border-radius: 4px;
  background: var(--bg);
  color: var(--text);
}

.autohide.hidden {
  opacity: 0;
  visibility: hidden;
}

/* ============ Pages ============ */
.content {
  max-width: var(--page-max-width);
  margin: 0 auto;
  padding: 1rem 0 4rem;
}

.description {
  padding: 1rem;
  margin-bottom: 1rem;
  border-bottom: 1px solid var(--border);
}

.page {
  width: 100%;
  background: var(--bg-secondary);
}

.page img {
  display: block;
  width: 100%;
  height: auto;
}

.page.loaded { background: none; }

.empty, .lead {
  padding: 2rem;
  text-align: center;
  color: var(--text-muted);
}

/* ============ Library index ============ */
.series-grid {
  list-style: none;
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(180px, 1fr));
  gap: 1rem;
  padding: 1rem;
}

.series-card a {
  display: flex;
  flex-direction: column;
  gap: 0.25rem;
  color: var(--text);
}

.series-card img,
.cover-placeholder {
  width: 100%;
  aspect-ratio: 2 / 3;
  object-fit: cover;
  border-radius: 4px;
  background: var(--bg-secondary);
  box-shadow: var(--shadow);
}

.series-title { font-weight: 600; text-transform: capitalize; }
.series-meta { font-size: 0.85rem; color: var(--text-muted); }

/* ============ Responsive ============ */
@media (max-width: 767px) {
  .chapter-bar { display: none; }
  .sidebar.open { width: 80vw; }
}
`

// jsContent drives the sidebar, lazy images and chapter tracking.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("mangaview-theme", theme); } catch(e) {}
  }

  var storedTheme = null;
  try { storedTheme = localStorage.getItem("mangaview-theme"); } catch(e) {}
  if (storedTheme) {
    setTheme(storedTheme);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  // ===== Sidebar toggle =====
  var sidebar = document.getElementById("sidebar");
  var sidebarToggle = document.getElementById("sidebar-toggle");
  var overlay = document.getElementById("sidebar-overlay");

  function setSidebar(open) {
    if (!sidebar) return;
    sidebar.classList.toggle("open", open);
    if (overlay) overlay.classList.toggle("visible", open);
    try { localStorage.setItem("mangaview-sidebar", open ? "1" : "0"); } catch(e) {}
  }

  try { if (localStorage.getItem("mangaview-sidebar") === "1") setSidebar(true); } catch(e) {}
  if (sidebarToggle) {
    sidebarToggle.addEventListener("click", function() {
      setSidebar(!sidebar.classList.contains("open"));
    });
  }
  if (overlay) overlay.addEventListener("click", function() { setSidebar(false); });

  // ===== Sidebar filter =====
  var filterInput = document.getElementById("sidebar-filter");
  if (filterInput && sidebar) {
    filterInput.addEventListener("input", function() {
      var term = filterInput.value.trim().toLowerCase();
      sidebar.querySelectorAll("li[data-filter]").forEach(function(li) {
        var match = term === "" || li.getAttribute("data-filter").indexOf(term) !== -1;
        li.style.display = match ? "" : "none";
      });
    });
  }

  // ===== Header shows on scroll up =====
  var chrome = document.querySelectorAll(".autohide");
  var lastY = window.scrollY;
  window.addEventListener("scroll", function() {
    var y = window.scrollY;
    var hidden = y > lastY && y > 0;
    chrome.forEach(function(el) { el.classList.toggle("hidden", hidden); });
    lastY = y;
  }, { passive: true });

  // ===== Reader =====
  var cfgEl = document.getElementById("reader-config");
  if (!cfgEl) return;
  var cfg = JSON.parse(cfgEl.textContent);

  // Lazy images: a page keeps its placeholder until it is near the viewport.
  var pages = document.querySelectorAll(".page");
  function loadPage(page) {
    var img = page.querySelector("img[data-src]");
    if (!img) return;
    img.src = img.getAttribute("data-src");
    img.removeAttribute("data-src");
    page.classList.add("loaded");
  }
  if ("IntersectionObserver" in window) {
    var lazy = new IntersectionObserver(function(entries) {
      entries.forEach(function(e) {
        if (e.isIntersecting) {
          loadPage(e.target);
          lazy.unobserve(e.target);
        }
      });
    }, { rootMargin: "0px 0px " + cfg.lazyMarginPx + "px 0px" });
    pages.forEach(function(p) { lazy.observe(p); });
  } else {
    pages.forEach(loadPage);
  }

  function stickyOffset() {
    return window.innerWidth < cfg.narrowBreakpoint ? cfg.stickyOffsetNarrow : cfg.stickyOffset;
  }

  // rootMargin bounds a band that starts below the chrome and is a share of
  // the viewport tall, never less than minBandPx.
  function rootMargin(offset) {
    var vh = window.innerHeight;
    var band = Math.max(vh * cfg.observeFraction, cfg.minBandPx);
    return (-offset) + "px 0px " + (offset + band - vh) + "px 0px";
  }

  function chapterOf(fragment) {
    var m = /^#?chapter-(\d+)$/.exec(fragment || "");
    return m ? parseInt(m[1], 10) : null;
  }

  function highlight(n) {
    document.querySelectorAll("li[data-chapter]").forEach(function(li) {
      li.classList.toggle("active", n !== null && li.getAttribute("data-chapter") === String(n));
    });
  }

  function replaceFragment(fragment) {
    if (window.location.hash === fragment) return;
    try {
      history.replaceState(history.state, "", fragment || window.location.pathname + window.location.search);
    } catch(e) {
      console.warn("address update failed", e);
    }
  }

  // localTracker runs chapter tracking in the page itself.
  function localTracker() {
    if (!("IntersectionObserver" in window)) return;
    var anchors = Array.prototype.slice.call(document.querySelectorAll(".page[id]"));
    var chapters = {};
    anchors.forEach(function(a) { chapters[a.id] = chapterOf(a.id); });

    var offset = stickyOffset();
    var visible = {};
    var current = null;
    var timer = null;
    var observer = null;
    var gen = 0;

    function schedule() {
      if (timer) clearTimeout(timer);
      var target = current === null ? "" : "#chapter-" + current;
      timer = setTimeout(function() {
        timer = null;
        replaceFragment(target);
      }, cfg.debounceMs);
    }

    function resolve() {
      var best = null, fallback = null;
      Object.keys(visible).forEach(function(id) {
        var c = { chapter: chapters[id], top: visible[id] };
        if (c.top >= offset) {
          if (!best || c.top < best.top || (c.top === best.top && c.chapter < best.chapter)) best = c;
        } else if (!fallback || c.top > fallback.top || (c.top === fallback.top && c.chapter < fallback.chapter)) {
          fallback = c;
        }
      });
      return best || fallback;
    }

    function observe() {
      if (observer) observer.disconnect();
      observer = null;
      visible = {};
      var mine = ++gen;
      if (anchors.length === 0) return;
      observer = new IntersectionObserver(function(entries) {
        if (mine !== gen) return;
        entries.forEach(function(e) {
          if (e.isIntersecting) visible[e.target.id] = e.boundingClientRect.top;
          else delete visible[e.target.id];
        });
        var pick = resolve();
        if (!pick || pick.chapter === current) return;
        current = pick.chapter;
        highlight(current);
        schedule();
      }, { rootMargin: rootMargin(offset) });
      anchors.forEach(function(a) { observer.observe(a); });
    }

    observe();
    if (anchors.length === 0) schedule();

    var lastHeight = window.innerHeight;
    window.addEventListener("resize", function() {
      var next = stickyOffset();
      if (next !== offset || window.innerHeight !== lastHeight) {
        offset = next;
        lastHeight = window.innerHeight;
        observe();
      }
    });
    window.addEventListener("pagehide", function() {
      gen++;
      if (timer) clearTimeout(timer);
      if (observer) observer.disconnect();
    });
  }

  // liveSession lets the server track the chapter and drive the address.
  function liveSession(fallback) {
    var proto = window.location.protocol === "https:" ? "wss://" : "ws://";
    var ws;
    try {
      ws = new WebSocket(proto + window.location.host + cfg.socketPath);
    } catch(e) {
      fallback();
      return;
    }
    var fellBack = false;
    var observer = null;
    var active = 0;

    function send(msg) {
      if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
    }

    ws.onopen = function() {
      send({
        type: "hello",
        series: cfg.series,
        fragment: window.location.hash,
        stickyOffset: stickyOffset(),
        viewportHeight: window.innerHeight
      });
    };

    ws.onmessage = function(ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch(e) { return; }
      switch (msg.type) {
      case "observe":
        if (observer) observer.disconnect();
        active = msg.gen;
        var gen = msg.gen;
        observer = new IntersectionObserver(function(entries) {
          if (gen !== active) return;
          send({
            type: "entries",
            gen: gen,
            entries: entries.map(function(e) {
              return { id: e.target.id, top: e.boundingClientRect.top, intersecting: e.isIntersecting };
            })
          });
        }, { rootMargin: msg.rootMargin });
        (msg.ids || []).forEach(function(id) {
          var el = document.getElementById(id);
          if (el) observer.observe(el);
        });
        break;
      case "unobserve":
        if (msg.gen === active && observer) {
          observer.disconnect();
          observer = null;
          active = 0;
        }
        break;
      case "replace":
        replaceFragment(msg.fragment);
        highlight(chapterOf(msg.fragment));
        break;
      case "error":
        console.warn("reading session:", msg.error);
        break;
      }
    };

    // Tracking continues in the page whenever the socket goes away.
    ws.onclose = function() {
      if (observer) observer.disconnect();
      observer = null;
      active = 0;
      if (!fellBack) {
        fellBack = true;
        fallback();
      }
    };

    window.addEventListener("hashchange", function() {
      send({ type: "hash", fragment: window.location.hash });
    });
    var lastOffset = stickyOffset();
    var lastHeight = window.innerHeight;
    window.addEventListener("resize", function() {
      var next = stickyOffset();
      if (next !== lastOffset || window.innerHeight !== lastHeight) {
        lastOffset = next;
        lastHeight = window.innerHeight;
        send({ type: "layout", stickyOffset: next, viewportHeight: lastHeight });
      }
    });
  }

  if (cfg.live && cfg.socketPath && "WebSocket" in window) {
    liveSession(localTracker);
  } else {
    localTracker();
  }
})();
`
